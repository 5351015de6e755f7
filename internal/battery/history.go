package battery

import "sync"

// DefaultHistorySize is how many readings a History keeps. At the default
// one-minute poll this is an hour of charge.
const DefaultHistorySize = 60

// History is a fixed-size ring of readings, oldest dropped first. It is safe
// for concurrent use.
type History struct {
	mu    sync.RWMutex
	data  []Status
	head  int
	count int
}

// NewHistory creates a history holding up to size readings.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{data: make([]Status, size)}
}

// Push records a reading.
func (h *History) Push(s Status) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data[h.head] = s
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Last returns up to n readings in chronological order (oldest first).
func (h *History) Last(n int) []Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || h.count == 0 {
		return nil
	}
	if n > h.count {
		n = h.count
	}

	size := len(h.data)
	// head is the next write slot, so the newest reading is at head-1.
	start := (h.head - n + size) % size

	out := make([]Status, n)
	for i := 0; i < n; i++ {
		out[i] = h.data[(start+i)%size]
	}
	return out
}

// Percentages returns up to n charge percentages, oldest first.
func (h *History) Percentages(n int) []float64 {
	readings := h.Last(n)
	if readings == nil {
		return nil
	}
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = float64(r.Percentage)
	}
	return out
}

// Len returns the number of readings stored.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear drops every reading.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.head, h.count = 0, 0
}
