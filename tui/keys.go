package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	StopAll    key.Binding
	LevelUp    key.Binding
	LevelDown  key.Binding
	FineUp     key.Binding
	FineDown   key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Copy       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "run/stop")),
		StopAll:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "stop all")),
		LevelUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "level ±5")),
		LevelDown:  key.NewBinding(key.WithKeys("-", "_")),
		FineUp:     key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "level ±1")),
		FineDown:   key.NewBinding(key.WithKeys("[")),
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy log")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Toggle, k.StopAll, k.LevelUp, k.FineUp, k.Connect, k.Disconnect, k.Copy, k.Quit}
}
