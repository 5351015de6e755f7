package robot

import (
	"testing"
	"time"

	"github.com/rileyhilliard/hexctl/internal/command"
	hexerrors "github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRepeat(o *Options) {
	o.RepeatInterval = 2 * time.Millisecond
	o.MinCommandInterval = -1
}

func TestPress_NotConnected(t *testing.T) {
	m := NewManager(quietOptions(dialConns()))

	err := m.Press(command.Forward)
	require.Error(t, err)
	_, active := m.Active()
	assert.False(t, active)
}

func TestPress_UnknownCommand(t *testing.T) {
	m := connectedManager(t, newFakeConn(), nil)

	err := m.Press(command.Command("forward"))
	require.Error(t, err)
	assert.True(t, hexerrors.IsCode(err, hexerrors.ErrCommand))
}

func TestPress_RepeatsUntilRelease(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, fastRepeat)

	require.NoError(t, m.Press(command.Forward))
	cmd, active := m.Active()
	assert.True(t, active)
	assert.Equal(t, command.Forward, cmd)

	require.Eventually(t, func() bool { return conn.countOf("FORWARD") >= 5 }, time.Second, time.Millisecond)

	m.Release()
	sent := len(conn.Writes())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, sent, len(conn.Writes()), "send landed after Release returned")

	_, active = m.Active()
	assert.False(t, active)
	assert.NotContains(t, conn.Writes(), "STOP", "release must not send STOP")
}

func TestPress_RateLimitCapsWireTraffic(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, func(o *Options) {
		o.RepeatInterval = time.Millisecond
		o.MinCommandInterval = 50 * time.Millisecond
	})

	require.NoError(t, m.Press(command.Backward))
	time.Sleep(120 * time.Millisecond)
	m.Release()

	n := conn.countOf("BACKWARD")
	assert.GreaterOrEqual(t, n, 2)
	assert.LessOrEqual(t, n, 4)
}

func TestPress_ReplacesActiveLoop(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, fastRepeat)

	require.NoError(t, m.Press(command.Forward))
	require.Eventually(t, func() bool { return conn.countOf("FORWARD") >= 2 }, time.Second, time.Millisecond)

	require.NoError(t, m.Press(command.Left))
	cut := len(conn.Writes())
	require.Eventually(t, func() bool { return conn.countOf("LEFT") >= 3 }, time.Second, time.Millisecond)
	m.Release()

	for _, w := range conn.Writes()[cut:] {
		assert.Equal(t, "LEFT", w)
	}
}

func TestRelease_WithoutPress(t *testing.T) {
	m := connectedManager(t, newFakeConn(), nil)
	assert.NotPanics(t, m.Release)
	assert.NotPanics(t, m.Release)
}

func TestPress_StopsOnDisconnect(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, fastRepeat)

	require.NoError(t, m.Press(command.Right))
	require.Eventually(t, func() bool { return conn.countOf("RIGHT") >= 2 }, time.Second, time.Millisecond)

	m.Disconnect()
	sent := len(conn.Writes())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, sent, len(conn.Writes()))
	_, active := m.Active()
	assert.False(t, active)
}
