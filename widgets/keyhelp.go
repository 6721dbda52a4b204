package widgets

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpStyles colours the bubbles help line: keys in accent, descriptions muted
func HelpStyles(keyColor, descColor lipgloss.TerminalColor) help.Styles {
	keyStyle := lipgloss.NewStyle().Foreground(keyColor)
	descStyle := lipgloss.NewStyle().Foreground(descColor)
	sepStyle := descStyle.Faint(true)

	return help.Styles{
		Ellipsis:       sepStyle,
		ShortKey:       keyStyle,
		ShortDesc:      descStyle,
		ShortSeparator: sepStyle,
		FullKey:        keyStyle,
		FullDesc:       descStyle,
		FullSeparator:  sepStyle,
	}
}

// NewHelp returns a help model styled with HelpStyles
func NewHelp(keyColor, descColor lipgloss.TerminalColor) help.Model {
	h := help.New()
	h.Styles = HelpStyles(keyColor, descColor)
	return h
}
