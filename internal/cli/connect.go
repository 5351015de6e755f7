package cli

import (
	"context"
	"io"

	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

// connectWithProgress connects m to ep, showing a spinner on w until the
// attempt settles. In machine mode nothing is printed.
func connectWithProgress(ctx context.Context, m *robot.Manager, ep link.Endpoint, w io.Writer) error {
	if machineMode {
		return m.Connect(ctx, ep.Address, ep.Port)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	states := m.SubscribeState(watchCtx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ui.WatchConnect(watchCtx, w, "Connecting to "+ep.String(), states)
	}()

	err := m.Connect(ctx, ep.Address, ep.Port)
	<-done
	return err
}
