package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/hexctl/internal/robot"
)

// WatchConnect shows a spinner while states reports Connecting and prints the
// outcome once the state settles. It returns the settled state, or the last
// state seen if ctx ends first.
func WatchConnect(ctx context.Context, w io.Writer, label string, states <-chan robot.State) robot.State {
	var (
		sp   *Spinner
		last robot.State
	)

	for {
		select {
		case <-ctx.Done():
			if sp != nil {
				sp.Stop()
			}
			return last
		case st, ok := <-states:
			if !ok {
				return last
			}
			last = st

			switch st.Kind {
			case robot.KindConnecting:
				if sp == nil {
					sp = NewSpinner(label)
					sp.SetOutput(func(s string) { fmt.Fprint(w, s) })
					sp.Start()
				}
				continue
			case robot.KindConnected:
				if sp != nil {
					sp.Success(RenderStateText(st))
					return st
				}
				fmt.Fprintln(w, RenderState(st))
				return st
			case robot.KindError:
				if sp != nil {
					sp.Fail(st.Message)
					return st
				}
				fmt.Fprintln(w, RenderState(st))
				return st
			}
			// Disconnected before the attempt starts; keep waiting.
		}
	}
}

// RenderStateText is RenderState without the leading symbol.
func RenderStateText(s robot.State) string {
	switch s.Kind {
	case robot.KindConnected:
		return fmt.Sprintf("Connected to %s", s.Endpoint())
	case robot.KindConnecting:
		return "Connecting..."
	case robot.KindError:
		return s.Message
	default:
		return "Disconnected"
	}
}
