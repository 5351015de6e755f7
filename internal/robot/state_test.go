package robot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateConstructors(t *testing.T) {
	assert.Equal(t, KindDisconnected, Disconnected().Kind)
	assert.Equal(t, KindConnecting, Connecting().Kind)

	c := Connected("192.168.1.1", 8080)
	assert.True(t, c.IsConnected())
	assert.Equal(t, "192.168.1.1:8080", c.Endpoint().String())

	f := Failed("Connection lost")
	assert.False(t, f.IsConnected())
	assert.Equal(t, "Connection lost", f.Message)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Disconnected(), "disconnected"},
		{Connecting(), "connecting"},
		{Connected("10.0.0.5", 9000), "connected to 10.0.0.5:9000"},
		{Failed("Connection refused: robot not available"), "error: Connection refused: robot not available"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestStateJSON(t *testing.T) {
	b, err := json.Marshal(Connected("192.168.1.1", 8080))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"connected","address":"192.168.1.1","port":8080}`, string(b))

	b, err = json.Marshal(Failed("Connection lost"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"error","message":"Connection lost"}`, string(b))
}
