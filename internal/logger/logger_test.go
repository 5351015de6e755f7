package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBase(debug bool) (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	base := logrus.New()
	configure(base, &buf, debug, false)
	return base, &buf
}

func TestLogrusLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		expectLog bool
	}{
		{
			name:      "logs when debug is enabled",
			debug:     true,
			expectLog: true,
		},
		{
			name:      "does not log at info level",
			debug:     false,
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, buf := newTestBase(tt.debug)
			l := NewWithBase(base, "test")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "component=test")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLogrusLogger_Levels(t *testing.T) {
	base, buf := newTestBase(false)
	l := NewWithBase(base, "link")

	l.Info("connected to %s", "192.168.1.1:8080")
	l.Warn("probe failed")
	l.Error("write failed: %v", "broken pipe")

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "connected to 192.168.1.1:8080")
	assert.Contains(t, out, "broken pipe")
}

func TestLogrusLogger_With(t *testing.T) {
	base, buf := newTestBase(false)
	l := NewWithBase(base, "robot").With("session", "abc123")

	l.Info("hello")
	assert.Contains(t, buf.String(), "session=abc123")
	assert.Contains(t, buf.String(), "component=robot")
}

func TestNoop(t *testing.T) {
	l := Noop()
	require.NotNil(t, l)

	// Should not panic
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Equal(t, l, l.With("k", "v"))
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error %s", "here")

	msgs := l.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug 1"}, msgs[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "error here"}, msgs[3])

	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("here"))
	assert.False(t, l.Contains("missing"))

	l.Clear()
	assert.Empty(t, l.Messages())
	assert.False(t, l.HasLevel("warn"))
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Info("msg %d", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Messages(), 10)
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("through default")

	assert.True(t, buf.Contains("through default"))
}
