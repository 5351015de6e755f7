package target

import (
	"testing"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Target
		wantErr bool
	}{
		{name: "command upper", text: "FORWARD", want: Target{Kind: KindCommand, Command: command.Forward}},
		{name: "command lower", text: "forward", want: Target{Kind: KindCommand, Command: command.Forward}},
		{name: "command with whitespace", text: "  dance\n", want: Target{Kind: KindCommand, Command: command.Dance}},
		{name: "gait", text: "Wave_Gait", want: Target{Kind: KindCommand, Command: command.WaveGait}},
		{name: "ip and port", text: "192.168.4.1:8080", want: Target{Kind: KindEndpoint, Endpoint: link.Endpoint{Address: "192.168.4.1", Port: 8080}}},
		{name: "bare ip", text: "10.0.0.2", want: Target{Kind: KindEndpoint, Endpoint: link.Endpoint{Address: "10.0.0.2", Port: 8080}}},
		{name: "hostname", text: "hexapod.local:9000", want: Target{Kind: KindEndpoint, Endpoint: link.Endpoint{Address: "hexapod.local", Port: 9000}}},
		{name: "unknown punctuated word", text: "left?", wantErr: true},
		{name: "bad port", text: "192.168.4.1:http", wantErr: true},
		{name: "port out of range", text: "192.168.4.1:70000", wantErr: true},
		{name: "truncated ip", text: "192.168.1.", wantErr: true},
		{name: "ipv6", text: "[::1]:8080", wantErr: true},
		{name: "empty", text: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, 8080)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
