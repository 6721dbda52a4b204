package tui

import "github.com/charmbracelet/bubbles/key"

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	PlayPause  key.Binding
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	PlayPause:  key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space/p", "play/pause")),
	NudgeLeft:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "turn back")),
	NudgeRight: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "turn forward")),
	Help:       Key("more keys", "?"),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.NudgeLeft, k.NudgeRight, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Quit},
		{k.NudgeLeft, k.NudgeRight},
		{k.Help},
	}
}
