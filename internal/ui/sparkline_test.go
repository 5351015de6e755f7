package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"empty", nil, 10, ""},
		{"zero width", []float64{50}, 0, ""},
		{"range", []float64{0, 50, 100}, 10, "▁▄█"},
		{"clamped", []float64{-10, 150}, 10, "▁█"},
		{"newest kept", []float64{0, 0, 100, 100}, 2, "██"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSparkline(tt.data, tt.width, ColorSuccess))
		})
	}
}
