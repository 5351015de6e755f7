package drive

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/robot"
)

type fakeController struct {
	mu        sync.Mutex
	state     robot.State
	battery   *battery.Status
	pressed   []command.Command
	sent      []command.Command
	releases  int
	connects  []link.Endpoint
	disconns  int
	pressErr  error
	refreshed int
}

func (f *fakeController) Connect(_ context.Context, address string, port int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, link.Endpoint{Address: address, Port: port})
	f.state = robot.Connected(address, port)
	return nil
}

func (f *fakeController) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconns++
	f.state = robot.Disconnected()
}

func (f *fakeController) Press(cmd command.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pressErr != nil {
		return f.pressErr
	}
	f.pressed = append(f.pressed, cmd)
	return nil
}

func (f *fakeController) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func (f *fakeController) SendOnce(cmd command.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeController) RefreshBattery(context.Context) (battery.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed++
	return battery.Status{}, errors.New("GET_BATTERY: connection refused")
}

func (f *fakeController) State() robot.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) SubscribeState(ctx context.Context) <-chan robot.State {
	return make(chan robot.State)
}

func (f *fakeController) Battery() *battery.Status { return f.battery }

func (f *fakeController) SubscribeBattery(ctx context.Context) <-chan *battery.Status {
	return make(chan *battery.Status)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func connectedModel(t *testing.T) (Model, *fakeController) {
	t.Helper()
	ctl := &fakeController{state: robot.Connected("10.0.0.5", 8080)}
	m := NewModel(ctl, link.Endpoint{Address: "10.0.0.5", Port: 8080}, Options{})
	t.Cleanup(m.cancel)
	return m, ctl
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestNewModel(t *testing.T) {
	m, _ := connectedModel(t)

	assert.Equal(t, DefaultHoldTimeout, m.opts.HoldTimeout)
	assert.Equal(t, command.TripodGait, m.Gait())
	assert.True(t, m.state.IsConnected())
	assert.Empty(t, m.Held())
}

func TestHold_PressesOnceWhileRepeating(t *testing.T) {
	m, ctl := connectedModel(t)

	m, cmd := update(t, m, runes("w"))
	require.NotNil(t, cmd, "holding arms a release timer")
	assert.Equal(t, command.Forward, m.Held())

	// Terminal key repeat delivers the same key again.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, runes("w"))

	assert.Equal(t, []command.Command{command.Forward}, ctl.pressed)
	assert.Equal(t, 3, m.holdSeq)
}

func TestHold_SwitchesDirection(t *testing.T) {
	m, ctl := connectedModel(t)

	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, runes("a"))

	assert.Equal(t, []command.Command{command.Forward, command.Left}, ctl.pressed)
	assert.Equal(t, command.Left, m.Held())
}

func TestRelease_OnlyLatestTimerReleases(t *testing.T) {
	m, ctl := connectedModel(t)

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, runes("d"))

	m, _ = update(t, m, releaseMsg{seq: 1})
	assert.Equal(t, command.Right, m.Held(), "a stale timer must not release")
	assert.Equal(t, 0, ctl.releases)

	m, _ = update(t, m, releaseMsg{seq: 2})
	assert.Empty(t, m.Held())
	assert.Equal(t, 1, ctl.releases)

	// A late timer after the release is a no-op.
	_, _ = update(t, m, releaseMsg{seq: 2})
	assert.Equal(t, 1, ctl.releases)
}

func TestHold_IgnoredWhenDisconnected(t *testing.T) {
	ctl := &fakeController{state: robot.Disconnected()}
	m := NewModel(ctl, link.Endpoint{Address: "10.0.0.5", Port: 8080}, Options{})
	defer m.cancel()

	m, cmd := update(t, m, runes("w"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Held())
	assert.Empty(t, ctl.pressed)
}

func TestHold_PressErrorShown(t *testing.T) {
	m, ctl := connectedModel(t)
	ctl.pressErr = errors.New("not connected to robot")

	m, _ = update(t, m, runes("s"))
	assert.Empty(t, m.Held())
	assert.Equal(t, "not connected to robot", m.LastError())
}

func TestSendOnce_ReleasesHeldMotion(t *testing.T) {
	m, ctl := connectedModel(t)

	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	assert.Empty(t, m.Held())
	assert.Equal(t, 1, ctl.releases)
	assert.Equal(t, []command.Command{command.Stop}, ctl.sent)
}

func TestSendOnce_TracksGait(t *testing.T) {
	m, ctl := connectedModel(t)

	m, _ = update(t, m, runes("3"))
	assert.Equal(t, command.RippleGait, m.Gait())

	m, _ = update(t, m, runes("n"))
	assert.Equal(t, command.RippleGait, m.Gait(), "non-gait actions keep the gait")

	assert.Equal(t, []command.Command{command.RippleGait, command.Dance}, ctl.sent)
}

func TestStateMsg_DropsHeldOnDisconnect(t *testing.T) {
	m, _ := connectedModel(t)

	m, _ = update(t, m, runes("w"))
	m, cmd := update(t, m, stateMsg(robot.Failed(robot.ConnectionLost)))

	assert.NotNil(t, cmd, "keeps listening for state updates")
	assert.Empty(t, m.Held())
	assert.Equal(t, robot.KindError, m.state.Kind)
}

func TestBatteryMsg(t *testing.T) {
	m, _ := connectedModel(t)

	s := battery.FromPercentage(42, time.Time{})
	m, _ = update(t, m, batteryMsg{status: &s})

	require.NotNil(t, m.battery)
	assert.Equal(t, 42, m.battery.Percentage)
	assert.Contains(t, m.View(), "42%")
}

func TestConnectKey(t *testing.T) {
	ctl := &fakeController{state: robot.Disconnected()}
	m := NewModel(ctl, link.Endpoint{Address: "10.0.0.5", Port: 8080}, Options{})
	defer m.cancel()

	m, cmd := update(t, m, runes("c"))
	require.NotNil(t, cmd)

	msg := cmd()
	res, ok := msg.(resultMsg)
	require.True(t, ok)
	assert.NoError(t, res.err)
	assert.Equal(t, []link.Endpoint{{Address: "10.0.0.5", Port: 8080}}, ctl.connects)

	_, _ = update(t, m, msg)
}

func TestDisconnectKey(t *testing.T) {
	m, ctl := connectedModel(t)

	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, runes("x"))

	assert.Empty(t, m.Held())
	assert.Equal(t, 1, ctl.disconns)
	assert.Equal(t, 1, ctl.releases)
}

func TestBatteryKey_ShowsError(t *testing.T) {
	m, ctl := connectedModel(t)

	m, cmd := update(t, m, runes("b"))
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, ctl.refreshed)
	assert.Equal(t, "GET_BATTERY: connection refused", m.LastError())
}

func TestQuit(t *testing.T) {
	m, ctl := connectedModel(t)

	m, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, ctl.releases)
	assert.Equal(t, 1, ctl.disconns)
	assert.Empty(t, m.View())
	assert.Error(t, m.ctx.Err())
}

func TestHelpToggle(t *testing.T) {
	m, _ := connectedModel(t)

	short := m.View()
	m, _ = update(t, m, runes("?"))
	full := m.View()

	assert.True(t, m.help.ShowAll)
	assert.Contains(t, full, "tripod gait")
	assert.NotContains(t, short, "tripod gait")
}

func TestView_Disconnected(t *testing.T) {
	ctl := &fakeController{state: robot.Disconnected()}
	m := NewModel(ctl, link.Endpoint{Address: "10.0.0.5", Port: 8080}, Options{})
	defer m.cancel()

	view := m.View()
	assert.Contains(t, view, "10.0.0.5:8080")
	assert.Contains(t, view, "Press c to connect.")
	assert.Contains(t, view, "--%")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Connection refused", firstLine("✗ Connection refused\n  try again"))
	assert.Equal(t, "plain", firstLine("plain"))
	assert.True(t, strings.HasPrefix(firstLine("  a\nb"), "a"))
}

func TestBatteryMsg_RecordsTrend(t *testing.T) {
	m, _ := connectedModel(t)

	for _, p := range []int{90, 85, 80} {
		s := battery.FromPercentage(p, time.Time{})
		m, _ = update(t, m, batteryMsg{status: &s})
	}
	m, _ = update(t, m, batteryMsg{status: nil})

	assert.Equal(t, []float64{90, 85, 80}, m.history.Percentages(10))
	assert.Contains(t, m.View(), "Trend")
}
