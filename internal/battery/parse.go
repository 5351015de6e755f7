package battery

import (
	"strconv"
	"strings"
	"time"
)

// Response line prefixes recognized in a telemetry reply.
const (
	PercentPrefix = "BATTERY:"
	VoltagePrefix = "VOLTAGE:"
)

// ParseResponse extracts a status from a raw telemetry reply. The reply is split
// on newlines and carriage returns, blank lines are dropped, and the first line
// carrying a recognized prefix decides the result. BATTERY:<int> is a percentage;
// VOLTAGE:<float> is converted through the discharge curve. Any other shape
// returns false.
func ParseResponse(raw []byte, at time.Time) (Status, bool) {
	lines := strings.FieldsFunc(string(raw), func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, PercentPrefix):
			value := strings.TrimSpace(strings.TrimPrefix(line, PercentPrefix))
			percent, err := strconv.Atoi(value)
			if err != nil {
				return Status{}, false
			}
			return FromPercentage(percent, at), true

		case strings.HasPrefix(line, VoltagePrefix):
			value := strings.TrimSpace(strings.TrimPrefix(line, VoltagePrefix))
			volts, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Status{}, false
			}
			return FromVoltage(volts, at), true
		}
	}

	return Status{}, false
}
