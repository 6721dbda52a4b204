package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"mandachord/layout"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	NoteEmpty   string // · slot with nothing in it
	NoteActive  string // ● active note
	NoteCurrent string // ◉ active note under the playhead
	Marker      string // │ playhead
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteEmpty:   "·",
			NoteActive:  "●",
			NoteCurrent: "◉",
			Marker:      "│",
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // night
	RolePan     = 0.2 // slate blue pan control
	RoleMuted   = 0.4 // mist
	RoleFG      = 0.5 // haze
	RoleLine    = 0.6 // pale step lines
	RoleAccent  = 0.7 // lotus
	RoleActive  = 0.8 // petal
	RoleWarning = 0.9 // amber
	RoleSuccess = 1.0 // glow
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RoleColor picks the colour for a scene element
func (t *Theme) RoleColor(r layout.Role) lipgloss.Color {
	switch r {
	case layout.RolePan:
		return t.Color(RolePan)
	case layout.RolePanRing, layout.RoleBarLabel:
		return t.Accent()
	case layout.RoleStepLine, layout.RoleBarLine:
		return t.Color(RoleLine)
	case layout.RoleNote:
		return t.Muted()
	case layout.RoleNoteActive:
		return t.Active()
	case layout.RoleNoteCurrent:
		return t.Success()
	case layout.RoleMarker:
		return t.Color(RoleLine)
	case layout.RoleTransport:
		return t.Warning()
	}
	return t.FG()
}

// Style is the canvas style for a scene element
func (t *Theme) Style(r layout.Role) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(t.RoleColor(r))
	if r == layout.RoleTransport || r == layout.RoleNoteCurrent {
		style = style.Bold(true)
	}
	return style
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
