package robot

import (
	"context"
	"time"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
)

// Timing defaults.
const (
	DefaultRepeatInterval      = 100 * time.Millisecond
	DefaultMinCommandInterval  = 20 * time.Millisecond
	DefaultHealthInterval      = 30 * time.Second
	DefaultMaxFailedProbes     = 10
	DefaultBatteryPollInterval = 60 * time.Second
)

// KeepAlive is the probe written by the health monitor. Robots that echo it
// have the reply discarded by the drain reader.
var KeepAlive = []byte{0x00}

// Conn is the subset of *link.Link the manager uses.
type Conn interface {
	Write(b []byte) error
	Close() error
	Alive() bool
	Done() <-chan struct{}
}

// DialFunc opens the command link.
type DialFunc func(ctx context.Context, ep link.Endpoint, opts link.Options) (Conn, error)

// QueryFunc fetches battery status over the side channel.
type QueryFunc func(ctx context.Context, ep link.Endpoint, opts telemetry.Options) (battery.Status, error)

// Options configures a Manager. Zero fields take their defaults.
type Options struct {
	Link      link.Options
	Telemetry telemetry.Options

	RepeatInterval      time.Duration
	MinCommandInterval  time.Duration
	HealthInterval      time.Duration
	MaxFailedProbes     int
	BatteryPollInterval time.Duration

	Logger logger.Logger

	// Test hooks.
	Dial  DialFunc
	Query QueryFunc
	Now   func() time.Time
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Link:                link.DefaultOptions(),
		Telemetry:           telemetry.DefaultOptions(),
		RepeatInterval:      DefaultRepeatInterval,
		MinCommandInterval:  DefaultMinCommandInterval,
		HealthInterval:      DefaultHealthInterval,
		MaxFailedProbes:     DefaultMaxFailedProbes,
		BatteryPollInterval: DefaultBatteryPollInterval,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Link == (link.Options{}) {
		o.Link = d.Link
	}
	if o.Telemetry.ConnectTimeout == 0 && o.Telemetry.ReadTimeout == 0 {
		o.Telemetry = d.Telemetry
	}
	if o.RepeatInterval <= 0 {
		o.RepeatInterval = d.RepeatInterval
	}
	if o.MinCommandInterval < 0 {
		o.MinCommandInterval = 0
	} else if o.MinCommandInterval == 0 {
		o.MinCommandInterval = d.MinCommandInterval
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = d.HealthInterval
	}
	if o.MaxFailedProbes <= 0 {
		o.MaxFailedProbes = d.MaxFailedProbes
	}
	if o.BatteryPollInterval <= 0 {
		o.BatteryPollInterval = d.BatteryPollInterval
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.Dial == nil {
		o.Dial = dialLink
	}
	if o.Query == nil {
		o.Query = telemetry.Query
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func dialLink(ctx context.Context, ep link.Endpoint, opts link.Options) (Conn, error) {
	l, err := link.Dial(ctx, ep, opts)
	if err != nil {
		return nil, err
	}
	return l, nil
}
