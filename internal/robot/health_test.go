package robot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastHealth(threshold int) func(*Options) {
	return func(o *Options) {
		o.HealthInterval = 2 * time.Millisecond
		o.MaxFailedProbes = threshold
	}
}

func TestHealth_ProbesWithZeroByte(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, fastHealth(3))

	require.Eventually(t, func() bool { return conn.countOf("\x00") >= 3 }, time.Second, time.Millisecond)
	assert.True(t, m.State().IsConnected())
}

func TestHealth_ToleratesFailuresBelowThreshold(t *testing.T) {
	conn := newFakeConn()
	conn.setWriteHook(func(int, []byte) error { return errWrite })
	m := connectedManager(t, conn, fastHealth(1000))

	require.Eventually(t, func() bool { return conn.Attempts() >= 10 }, time.Second, time.Millisecond)
	assert.True(t, m.State().IsConnected())
}

func TestHealth_DisconnectsAtThreshold(t *testing.T) {
	conn := newFakeConn()
	conn.setWriteHook(func(int, []byte) error { return errWrite })
	opts := quietOptions(dialConns(conn))
	fastHealth(3)(&opts)
	m := NewManager(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := collect(t, m.SubscribeState(ctx))

	require.NoError(t, m.Connect(context.Background(), "192.168.1.1", 8080))

	waitForKind(t, m, KindDisconnected)
	assert.Equal(t, 3, conn.Attempts(), "teardown must happen exactly at the threshold")
	assert.True(t, conn.Closed())

	require.Eventually(t, func() bool { return len(states()) == 5 }, time.Second, time.Millisecond)
	got := states()
	assert.Equal(t, []Kind{KindDisconnected, KindConnecting, KindConnected, KindError, KindDisconnected}, kinds(got))
	assert.Equal(t, Failed(ConnectionLost), got[3])
}

func TestHealth_SuccessResetsCounter(t *testing.T) {
	conn := newFakeConn()
	// Two failures, one success, repeating: never three in a row.
	conn.setWriteHook(func(attempt int, _ []byte) error {
		if attempt%3 == 0 {
			return nil
		}
		return errWrite
	})
	m := connectedManager(t, conn, fastHealth(3))

	require.Eventually(t, func() bool { return conn.Attempts() >= 15 }, time.Second, time.Millisecond)
	assert.True(t, m.State().IsConnected())
}

func TestHealth_ClosedLinkTearsDownImmediately(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, fastHealth(1000))

	conn.kill()

	waitForKind(t, m, KindDisconnected)
	assert.True(t, conn.Closed())
}

func TestWatch_HangupTearsDown(t *testing.T) {
	conn := newFakeConn()
	m := connectedManager(t, conn, nil)

	conn.hangup()

	waitForKind(t, m, KindDisconnected)
	assert.True(t, conn.Closed())
}
