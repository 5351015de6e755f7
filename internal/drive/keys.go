package drive

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rileyhilliard/hexctl/internal/command"
)

type keyMap struct {
	Forward  key.Binding
	Backward key.Binding
	Left     key.Binding
	Right    key.Binding

	Stop    key.Binding
	Stand   key.Binding
	LayDown key.Binding
	Dance   key.Binding

	Tripod    key.Binding
	Wave      key.Binding
	Ripple    key.Binding
	Staircase key.Binding

	Connect    key.Binding
	Disconnect key.Binding
	Battery    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Forward:  key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "forward")),
		Backward: key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "backward")),
		Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),

		Stop:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "stop")),
		Stand:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stand")),
		LayDown: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lay down")),
		Dance:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "dance")),

		Tripod:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tripod gait")),
		Wave:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "wave gait")),
		Ripple:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "ripple gait")),
		Staircase: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "staircase")),

		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
		Battery:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "battery")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Backward, k.Left, k.Right, k.Stop, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Backward, k.Left, k.Right},
		{k.Stop, k.Stand, k.LayDown, k.Dance},
		{k.Tripod, k.Wave, k.Ripple, k.Staircase},
		{k.Connect, k.Disconnect, k.Battery, k.Help, k.Quit},
	}
}

// commandKey pairs a binding with the command it sends.
type commandKey struct {
	binding key.Binding
	cmd     command.Command
}

// motion maps held keys to their continuous command.
func (k keyMap) motion() []commandKey {
	return []commandKey{
		{k.Forward, command.Forward},
		{k.Backward, command.Backward},
		{k.Left, command.Left},
		{k.Right, command.Right},
	}
}

// actions maps one-shot keys to their command.
func (k keyMap) actions() []commandKey {
	return []commandKey{
		{k.Stop, command.Stop},
		{k.Stand, command.Stand},
		{k.LayDown, command.LayDown},
		{k.Dance, command.Dance},
		{k.Tripod, command.TripodGait},
		{k.Wave, command.WaveGait},
		{k.Ripple, command.RippleGait},
		{k.Staircase, command.StaircaseMode},
	}
}
