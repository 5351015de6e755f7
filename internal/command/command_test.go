package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Command
		wantOK bool
	}{
		{name: "lowercase", input: "forward", want: Forward, wantOK: true},
		{name: "uppercase", input: "FORWARD", want: Forward, wantOK: true},
		{name: "mixed case", input: "Lay_Down", want: LayDown, wantOK: true},
		{name: "gait", input: "tripod_gait", want: TripodGait, wantOK: true},
		{name: "battery request", input: "get_battery", want: GetBattery, wantOK: true},
		{name: "trailing punctuation", input: "left?", wantOK: false},
		{name: "surrounding whitespace", input: " STOP ", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "address", input: "192.168.1.1:8080", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAllRoundTripsThroughParse(t *testing.T) {
	for _, c := range All() {
		got, ok := Parse(c.String())
		assert.True(t, ok, "%s should parse", c)
		assert.Equal(t, c, got)
		assert.True(t, c.Valid())
	}
	assert.Len(t, All(), 13)
}

func TestAllReturnsCopy(t *testing.T) {
	cmds := All()
	cmds[0] = "JUMP"
	assert.Equal(t, Forward, All()[0])
}

func TestWire(t *testing.T) {
	assert.Equal(t, []byte("FORWARD"), Forward.Wire())
	assert.Equal(t, []byte("STAIRCASE_MODE"), StaircaseMode.Wire())
	assert.Equal(t, []byte("GET_BATTERY\n"), GetBattery.Wire())
}

func TestClassification(t *testing.T) {
	for _, c := range []Command{Forward, Backward, Left, Right} {
		assert.True(t, c.Continuous(), "%s", c)
		assert.False(t, c.IsGait(), "%s", c)
	}
	for _, c := range []Command{TripodGait, WaveGait, RippleGait, StaircaseMode} {
		assert.True(t, c.IsGait(), "%s", c)
		assert.False(t, c.Continuous(), "%s", c)
	}
	assert.False(t, Stop.Continuous())
	assert.False(t, Command("JUMP").Valid())
}
