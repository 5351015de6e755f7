package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/config"
	hexerrors "github.com/rileyhilliard/hexctl/internal/errors"
)

// connectTimeout bounds a connect request that carries no deadline of its own.
const connectTimeout = 15 * time.Second

type connectRequest struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctl.State())
}

func (s *Server) getBattery(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctl.Battery())
}

func (s *Server) connect(c *gin.Context) {
	var req connectRequest
	// An empty body means "use the saved endpoint".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, http.StatusBadRequest, hexerrors.WrapWithCode(err, hexerrors.ErrConfig,
			"Request body isn't valid JSON", `Send {"address":"192.168.1.1","port":8080}`))
		return
	}

	explicit := req.Address != "" || req.Port != 0
	if !explicit {
		if s.settings == nil {
			s.fail(c, http.StatusBadRequest, hexerrors.New(hexerrors.ErrConfig,
				"No endpoint given and no saved settings", `Send {"address":"192.168.1.1","port":8080}`))
			return
		}
		req.Address, req.Port = s.settings.Address(), s.settings.Port()
	}

	if err := config.ValidateAddress(req.Address); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if err := config.ValidatePort(req.Port); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), connectTimeout)
	defer cancel()

	if err := s.ctl.Connect(ctx, req.Address, req.Port); err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}

	if explicit && s.settings != nil {
		s.remember(req.Address, req.Port)
	}

	c.JSON(http.StatusOK, s.ctl.State())
}

// remember persists a successful endpoint. Failures are logged only; the
// connection itself is already up.
func (s *Server) remember(address string, port int) {
	if err := s.settings.SetAddress(address); err != nil {
		s.log.Warn("Couldn't save address: %v", err)
		return
	}
	if err := s.settings.SetPort(port); err != nil {
		s.log.Warn("Couldn't save port: %v", err)
		return
	}
	if err := s.settings.Save(); err != nil {
		s.log.Warn("Couldn't save settings: %v", err)
	}
}

func (s *Server) disconnect(c *gin.Context) {
	s.ctl.Disconnect()
	c.JSON(http.StatusOK, s.ctl.State())
}

func (s *Server) press(c *gin.Context) {
	cmd, ok := parseCommand(c)
	if !ok {
		return
	}
	if err := s.ctl.Press(cmd); err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pressed": cmd})
}

func (s *Server) release(c *gin.Context) {
	s.ctl.Release()
	c.JSON(http.StatusOK, gin.H{"released": true})
}

func (s *Server) send(c *gin.Context) {
	cmd, ok := parseCommand(c)
	if !ok {
		return
	}
	if err := s.ctl.SendOnce(cmd); err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": cmd})
}

func (s *Server) refreshBattery(c *gin.Context) {
	status, err := s.ctl.RefreshBattery(c.Request.Context())
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func parseCommand(c *gin.Context) (command.Command, bool) {
	raw := c.Param("command")
	cmd, ok := command.Parse(raw)
	if !ok {
		err := hexerrors.NewUnknownCommand(raw)
		c.JSON(http.StatusBadRequest, toResponse(err))
		_ = c.Error(err)
		c.Abort()
		return "", false
	}
	if cmd == command.GetBattery {
		err := hexerrors.New(hexerrors.ErrCommand,
			"GET_BATTERY goes over its own connection", "Use POST /battery/refresh")
		c.JSON(http.StatusBadRequest, toResponse(err))
		_ = c.Error(err)
		c.Abort()
		return "", false
	}
	return cmd, true
}

// statusFor maps an error code onto an HTTP status.
func statusFor(err error) int {
	switch {
	case hexerrors.IsCode(err, hexerrors.ErrCommand), hexerrors.IsCode(err, hexerrors.ErrConfig):
		return http.StatusBadRequest
	case hexerrors.IsCode(err, hexerrors.ErrLink):
		return http.StatusConflict
	case hexerrors.IsCode(err, hexerrors.ErrConnect), hexerrors.IsCode(err, hexerrors.ErrTelemetry):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	c.JSON(status, toResponse(err))
	_ = c.Error(err)
	c.Abort()
}

func toResponse(err error) errorResponse {
	var e *hexerrors.Error
	if errors.As(err, &e) {
		return errorResponse{Error: e.Message, Code: e.Code, Suggestion: e.Suggestion}
	}
	return errorResponse{Error: err.Error()}
}
