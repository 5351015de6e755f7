package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/robot"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// Controller is the robot surface the server drives. *robot.Manager
// satisfies it.
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

// Settings supplies and retains the last-used endpoint. *config.Store
// satisfies it.
type Settings interface {
	Address() string
	Port() int
	SetAddress(address string) error
	SetPort(port int) error
	Save() error
}

// Server is the HTTP bridge.
type Server struct {
	ctl      Controller
	settings Settings
	log      logger.Logger
	router   *gin.Engine
}

// New builds a server for ctl. settings may be nil, in which case POST
// /connect requires an explicit endpoint and nothing is persisted.
func New(ctl Controller, settings Settings, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{ctl: ctl, settings: settings, log: log}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))

	router.GET("/state", s.getState)
	router.GET("/battery", s.getBattery)
	router.POST("/connect", s.connect)
	router.POST("/disconnect", s.disconnect)
	router.POST("/press/:command", s.press)
	router.POST("/release", s.release)
	router.POST("/send/:command", s.send)
	router.POST("/battery/refresh", s.refreshBattery)
	router.GET("/events", s.events)

	return router
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve handles requests on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening on %s", l.Addr())
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("HTTP server shutdown: %v", err)
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
