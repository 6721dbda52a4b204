package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandachord/layout"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "Lotus", p.Name)
	assert.Len(t, p.Colors, 11)
	assert.Equal(t, RGB{14, 20, 33}, p.Lookup(0))
	assert.Equal(t, RGB{255, 240, 170}, p.Lookup(1))
	assert.Equal(t, RGB{228, 241, 254}, p.Lookup(0.6))
}

func TestParseGPL(t *testing.T) {
	src := "GIMP Palette\nName: Two\nColumns: 2\n# comment\n0 0 0 Black\n255 255 255\tWhite\nnot a colour\n"
	p, err := ParseGPL(strings.NewReader(src), "two.gpl")
	require.NoError(t, err)
	assert.Equal(t, "Two", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))
}

func TestParseGPLEmpty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\n"), "empty.gpl")
	assert.ErrorContains(t, err, "empty.gpl")
}

func TestSingleColourPalette(t *testing.T) {
	p := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, p.Lookup(0.5))
}

func TestRoleColors(t *testing.T) {
	th := New(DefaultPalette())
	assert.Equal(t, lipgloss.Color("#e4f1fe"), th.RoleColor(layout.RoleBarLine))
	assert.Equal(t, th.Active(), th.RoleColor(layout.RoleNoteActive))
	assert.NotEqual(t, th.RoleColor(layout.RoleNote), th.RoleColor(layout.RoleNoteActive))
	assert.True(t, th.Style(layout.RoleTransport).GetBold())
}
