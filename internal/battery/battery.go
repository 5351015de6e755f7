// Package battery models the robot's battery telemetry.
package battery

import (
	"fmt"
	"math"
	"time"
)

// Status is one battery observation.
type Status struct {
	// Voltage of the pack in volts, or 0 when the device reported a percentage directly.
	Voltage    float64   `json:"voltage,omitempty"`
	Percentage int       `json:"percentage"`
	ObservedAt time.Time `json:"observedAt"`
}

// breakpoint maps a pack voltage to a state of charge.
type breakpoint struct {
	volts   float64
	percent float64
}

// dischargeCurve is the resting voltage curve of a two-cell (2S) lithium pack,
// ordered from full to empty.
var dischargeCurve = []breakpoint{
	{8.20, 100},
	{8.00, 90},
	{7.80, 80},
	{7.60, 70},
	{7.40, 60},
	{7.20, 50},
	{7.00, 40},
	{6.80, 30},
	{6.60, 20},
	{6.40, 12},
	{6.20, 5},
	{6.00, 0},
}

// FromVoltage derives a status from a pack voltage by linear interpolation
// between breakpoints, clamped to [0, 100].
func FromVoltage(volts float64, at time.Time) Status {
	return Status{
		Voltage:    volts,
		Percentage: percentForVoltage(volts),
		ObservedAt: at,
	}
}

// FromPercentage wraps a percentage reported by the device. Out-of-range
// values are clamped.
func FromPercentage(percent int, at time.Time) Status {
	return Status{
		Percentage: clamp(percent),
		ObservedAt: at,
	}
}

func percentForVoltage(volts float64) int {
	full := dischargeCurve[0]
	empty := dischargeCurve[len(dischargeCurve)-1]
	if math.IsNaN(volts) || volts <= empty.volts {
		return 0
	}
	if volts >= full.volts {
		return 100
	}

	for i := 1; i < len(dischargeCurve); i++ {
		hi, lo := dischargeCurve[i-1], dischargeCurve[i]
		if volts >= lo.volts {
			frac := (volts - lo.volts) / (hi.volts - lo.volts)
			return clamp(int(math.Round(lo.percent + frac*(hi.percent-lo.percent))))
		}
	}
	return 0
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Level buckets a charge for display.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelFull
)

// String returns a human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelFull:
		return "full"
	default:
		return "unknown"
	}
}

// Level returns the display bucket for the status.
func (s Status) Level() Level {
	switch {
	case s.Percentage >= 60:
		return LevelFull
	case s.Percentage >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

// String formats the status as "72%" or "72% (7.62V)".
func (s Status) String() string {
	if s.Voltage > 0 {
		return fmt.Sprintf("%d%% (%.2fV)", s.Percentage, s.Voltage)
	}
	return fmt.Sprintf("%d%%", s.Percentage)
}
