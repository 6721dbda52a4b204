package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LegendItem explains one colour on the disc
type LegendItem struct {
	Color lipgloss.TerminalColor
	Glyph string
	Name  string
}

// RenderSwatch renders a single coloured glyph
func RenderSwatch(color lipgloss.TerminalColor, glyph string) string {
	return lipgloss.NewStyle().Foreground(color).Render(glyph)
}

// RenderLegend renders items on one line: "● active  · empty  ..."
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s %s", RenderSwatch(it.Color, it.Glyph), it.Name))
	}
	return strings.Join(parts, "  ")
}
