package drive

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

// DefaultHoldTimeout outlasts the usual terminal auto-repeat delay, so a key
// held down is not released between its first press and the first repeat.
const DefaultHoldTimeout = 500 * time.Millisecond

// Controller is the part of *robot.Manager the drive view uses.
type Controller interface {
	Connect(ctx context.Context, address string, port int) error
	Disconnect()
	Press(cmd command.Command) error
	Release()
	SendOnce(cmd command.Command) error
	RefreshBattery(ctx context.Context) (battery.Status, error)
	State() robot.State
	SubscribeState(ctx context.Context) <-chan robot.State
	Battery() *battery.Status
	SubscribeBattery(ctx context.Context) <-chan *battery.Status
}

// Options configures the drive view.
type Options struct {
	// HoldTimeout is how long a motion command stays held after the last key
	// event for it.
	HoldTimeout time.Duration

	// AutoConnect dials the endpoint as soon as the view starts.
	AutoConnect bool
}

// stateMsg carries a connection state update.
type stateMsg robot.State

// batteryMsg carries a battery update.
type batteryMsg struct{ status *battery.Status }

// releaseMsg fires when a held key may have been let go.
type releaseMsg struct{ seq int }

// resultMsg reports the outcome of a background action.
type resultMsg struct {
	action string
	err    error
}

// subscriptionClosedMsg signals a subscription ended.
type subscriptionClosedMsg struct{}

// Model is the Bubble Tea model for the drive view.
type Model struct {
	ctl      Controller
	endpoint link.Endpoint
	opts     Options

	ctx       context.Context
	cancel    context.CancelFunc
	states    <-chan robot.State
	batteries <-chan *battery.Status

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	state   robot.State
	battery *battery.Status
	history *battery.History

	held     command.Command
	holdSeq  int
	gait     command.Command
	lastSent command.Command
	lastErr  string

	width    int
	quitting bool
}

// NewModel creates the drive view for ctl, targeting ep.
func NewModel(ctl Controller, ep link.Endpoint, opts Options) Model {
	if opts.HoldTimeout <= 0 {
		opts.HoldTimeout = DefaultHoldTimeout
	}

	sp := spinner.New()
	sp.Spinner = ui.SpinnerFrames
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	history := battery.NewHistory(battery.DefaultHistorySize)
	current := ctl.Battery()
	if current != nil {
		history.Push(*current)
	}

	return Model{
		ctl:       ctl,
		endpoint:  ep,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		states:    ctl.SubscribeState(ctx),
		batteries: ctl.SubscribeBattery(ctx),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		state:     ctl.State(),
		battery:   current,
		history:   history,
		gait:      command.TripodGait,
	}
}

// Init starts the subscriptions, the spinner, and optionally the connection.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForState(m.states),
		waitForBattery(m.batteries),
		m.spinner.Tick,
	}
	if m.opts.AutoConnect {
		cmds = append(cmds, m.connectCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case stateMsg:
		m.state = robot.State(msg)
		if !m.state.IsConnected() {
			m.held = ""
		}
		return m, waitForState(m.states)

	case batteryMsg:
		m.battery = msg.status
		if msg.status != nil {
			m.history.Push(*msg.status)
		}
		return m, waitForBattery(m.batteries)

	case releaseMsg:
		if msg.seq == m.holdSeq && m.held != "" {
			m.ctl.Release()
			m.held = ""
		}

	case resultMsg:
		if msg.err != nil {
			m.lastErr = firstLine(msg.err.Error())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctl.Release()
		m.ctl.Disconnect()
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Connect):
		m.lastErr = ""
		return m, m.connectCmd()

	case key.Matches(msg, m.keys.Disconnect):
		m.ctl.Release()
		m.held = ""
		m.ctl.Disconnect()
		return m, nil

	case key.Matches(msg, m.keys.Battery):
		return m, m.refreshCmd()
	}

	for _, mk := range m.keys.motion() {
		if key.Matches(msg, mk.binding) {
			return m.hold(mk.cmd)
		}
	}

	for _, ak := range m.keys.actions() {
		if key.Matches(msg, ak.binding) {
			return m.sendOnce(ak.cmd)
		}
	}

	return m, nil
}

// hold presses cmd if it isn't already held and re-arms the release timer.
func (m Model) hold(cmd command.Command) (tea.Model, tea.Cmd) {
	if !m.state.IsConnected() {
		return m, nil
	}

	if m.held != cmd {
		if err := m.ctl.Press(cmd); err != nil {
			m.lastErr = firstLine(err.Error())
			return m, nil
		}
		m.held = cmd
		m.lastSent = cmd
	}

	m.holdSeq++
	seq := m.holdSeq
	return m, tea.Tick(m.opts.HoldTimeout, func(time.Time) tea.Msg {
		return releaseMsg{seq: seq}
	})
}

func (m Model) sendOnce(cmd command.Command) (tea.Model, tea.Cmd) {
	if !m.state.IsConnected() {
		return m, nil
	}

	// A discrete action ends any held motion.
	if m.held != "" {
		m.ctl.Release()
		m.held = ""
	}

	if err := m.ctl.SendOnce(cmd); err != nil {
		m.lastErr = firstLine(err.Error())
		return m, nil
	}
	m.lastSent = cmd
	if cmd.IsGait() {
		m.gait = cmd
	}
	return m, nil
}

// View renders the drive screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Held returns the motion command currently held, if any.
func (m Model) Held() command.Command { return m.held }

// Gait returns the last selected gait.
func (m Model) Gait() command.Command { return m.gait }

// LastError returns the last error shown in the view.
func (m Model) LastError() string { return m.lastErr }

func (m Model) connectCmd() tea.Cmd {
	ctl, ctx, ep := m.ctl, m.ctx, m.endpoint
	return func() tea.Msg {
		return resultMsg{action: "connect", err: ctl.Connect(ctx, ep.Address, ep.Port)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		_, err := ctl.RefreshBattery(ctx)
		return resultMsg{action: "battery", err: err}
	}
}

func waitForState(ch <-chan robot.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return stateMsg(s)
	}
}

func waitForBattery(ch <-chan *battery.Status) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return batteryMsg{status: b}
	}
}

// Run starts the drive view full screen and blocks until the user quits.
func Run(ctx context.Context, ctl Controller, ep link.Endpoint, opts Options) error {
	m := NewModel(ctl, ep, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
