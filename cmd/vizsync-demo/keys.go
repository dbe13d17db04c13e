package main

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	Quit       key.Binding
	AxisLeft   key.Binding
	AxisRight  key.Binding
	RowUp      key.Binding
	RowDown    key.Binding
	Brush      key.Binding
	ClearBrush key.Binding
	DragLeft   key.Binding
	DragRight  key.Binding
	Click      key.Binding
	ClickAdd   key.Binding
	AddMode    key.Binding
	Clear      key.Binding
	PrevTime   key.Binding
	NextTime   key.Binding
	Play       key.Binding
}

var keys = keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	AxisLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev axis"),
	),
	AxisRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next axis"),
	),
	RowUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev row"),
	),
	RowDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next row"),
	),
	Brush: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "brush around row"),
	),
	ClearBrush: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear brush"),
	),
	DragLeft: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "move axis left"),
	),
	DragRight: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "move axis right"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select row"),
	),
	ClickAdd: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle row"),
	),
	AddMode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add mode"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c", "esc"),
		key.WithHelp("c", "clear selection"),
	),
	PrevTime: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "prev year"),
	),
	NextTime: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "next year"),
	),
	Play: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "play/pause"),
	),
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Brush, k.Click, k.AddMode, k.DragLeft, k.DragRight, k.PrevTime, k.NextTime, k.Play, k.Quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AxisLeft, k.AxisRight, k.RowUp, k.RowDown},
		{k.Brush, k.ClearBrush, k.DragLeft, k.DragRight},
		{k.Click, k.ClickAdd, k.AddMode, k.Clear},
		{k.PrevTime, k.NextTime, k.Play, k.Quit},
	}
}
