package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Reset        key.Binding
	Skip         key.Binding
	Focus        key.Binding
	ShortBreak   key.Binding
	LongBreak    key.Binding
	Duration     key.Binding
	NextTask     key.Binding
	AddTask      key.Binding
	CompleteTask key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Skip:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Focus:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus")),
		ShortBreak:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		LongBreak:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		Duration:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "focus length")),
		NextTask:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next task")),
		AddTask:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		CompleteTask: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete task")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Skip, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Skip},
		{k.Focus, k.ShortBreak, k.LongBreak, k.Duration},
		{k.NextTask, k.AddTask, k.CompleteTask},
		{k.Help, k.Quit},
	}
}
