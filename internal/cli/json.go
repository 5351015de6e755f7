package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeConnectRefused  = "CONNECT_REFUSED"
	ErrCodeConnectTimeout  = "CONNECT_TIMEOUT"
	ErrCodeHostUnreachable = "HOST_UNREACHABLE"
	ErrCodeConnectFailed   = "CONNECT_FAILED"
	ErrCodeLinkFailed      = "LINK_FAILED"
	ErrCodeTelemetryFailed = "TELEMETRY_FAILED"
	ErrCodeUnknownCommand  = "UNKNOWN_COMMAND"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	env := JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
// A dial failure anywhere in the chain wins over the wrapping error's code.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var dialErr *link.DialError
	if stderrors.As(err, &dialErr) {
		return dialErrorToJSON(err, dialErr)
	}

	var hexErr *errors.Error
	if stderrors.As(err, &hexErr) {
		return &JSONError{
			Code:       mapErrorCode(hexErr.Code, hexErr.Message),
			Message:    hexErr.Message,
			Suggestion: hexErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrConnect:
		return ErrCodeConnectFailed
	case errors.ErrLink:
		return ErrCodeLinkFailed
	case errors.ErrTelemetry:
		return ErrCodeTelemetryFailed
	case errors.ErrCommand:
		return ErrCodeUnknownCommand
	}

	return ErrCodeUnknown
}

// dialErrorToJSON reports the dial failure reason with a matching suggestion.
func dialErrorToJSON(err error, dialErr *link.DialError) *JSONError {
	var code, suggestion string

	switch dialErr.Reason {
	case link.DialFailTimeout:
		code = ErrCodeConnectTimeout
		suggestion = "Check the robot is powered on and you're on its network"
	case link.DialFailRefused:
		code = ErrCodeConnectRefused
		suggestion = "The robot is up but its command server isn't listening; check the port"
	case link.DialFailUnreachable:
		code = ErrCodeHostUnreachable
		suggestion = "Join the robot's Wi-Fi network or check the address"
	default:
		code = ErrCodeConnectFailed
	}

	message := dialErr.Summary()
	var hexErr *errors.Error
	if stderrors.As(err, &hexErr) && hexErr.Message != "" {
		message = hexErr.Message
	}

	return &JSONError{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Details: map[string]interface{}{
			"reason":   dialErr.Reason.String(),
			"endpoint": dialErr.Endpoint.String(),
		},
	}
}
