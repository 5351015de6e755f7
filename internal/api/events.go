package api

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
)

// events streams "state" and "battery" server-sent events. Each stream starts
// with the current value.
func (s *Server) events(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	states := s.ctl.SubscribeState(ctx)
	batteries := s.ctl.SubscribeBattery(ctx)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-states:
			if !ok {
				return false
			}
			c.SSEvent("state", st)
			return true
		case b, ok := <-batteries:
			if !ok {
				return false
			}
			c.SSEvent("battery", b)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
