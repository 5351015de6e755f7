// Package command defines the closed set of text commands understood by the robot.
package command

import "strings"

// Command is a logical robot command. Its value is the canonical wire token.
type Command string

// Motion commands are meant to be held and re-sent while a control is pressed.
const (
	Forward  Command = "FORWARD"
	Backward Command = "BACKWARD"
	Left     Command = "LEFT"
	Right    Command = "RIGHT"
)

// Discrete actions.
const (
	Stop    Command = "STOP"
	Stand   Command = "STAND"
	LayDown Command = "LAY_DOWN"
	Dance   Command = "DANCE"
)

// Gait mode selectors.
const (
	TripodGait    Command = "TRIPOD_GAIT"
	WaveGait      Command = "WAVE_GAIT"
	RippleGait    Command = "RIPPLE_GAIT"
	StaircaseMode Command = "STAIRCASE_MODE"
)

// GetBattery asks the robot for its battery level on the telemetry side channel.
const GetBattery Command = "GET_BATTERY"

var all = []Command{
	Forward, Backward, Left, Right,
	Stop, Stand, LayDown, Dance,
	TripodGait, WaveGait, RippleGait, StaircaseMode,
	GetBattery,
}

var byWire = func() map[string]Command {
	m := make(map[string]Command, len(all))
	for _, c := range all {
		m[string(c)] = c
	}
	return m
}()

// All returns every known command in declaration order.
func All() []Command {
	out := make([]Command, len(all))
	copy(out, all)
	return out
}

// Parse resolves text to a command. Matching is case-insensitive but otherwise
// exact; surrounding whitespace is not trimmed. Unknown text returns false.
func Parse(text string) (Command, bool) {
	c, ok := byWire[strings.ToUpper(text)]
	return c, ok
}

// String returns the canonical wire token.
func (c Command) String() string {
	return string(c)
}

// Wire returns the bytes written to the socket for this command.
// Motion and action commands are sent without a terminator; the telemetry
// request is newline-terminated.
func (c Command) Wire() []byte {
	if c == GetBattery {
		return []byte(string(c) + "\n")
	}
	return []byte(c)
}

// Valid reports whether c is one of the known commands.
func (c Command) Valid() bool {
	_, ok := byWire[string(c)]
	return ok
}

// Continuous reports whether c is a motion command meant to be held.
func (c Command) Continuous() bool {
	switch c {
	case Forward, Backward, Left, Right:
		return true
	}
	return false
}

// IsGait reports whether c selects a gait mode.
func (c Command) IsGait() bool {
	switch c {
	case TripodGait, WaveGait, RippleGait, StaircaseMode:
		return true
	}
	return false
}
