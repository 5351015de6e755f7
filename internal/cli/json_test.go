package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
)

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, SendResult{Endpoint: "10.0.0.5:8080", Sent: []string{"STAND"}})
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5:8080", data["endpoint"])
	assert.Equal(t, []interface{}{"STAND"}, data["sent"])
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONFromError(&buf, errors.NewUnknownCommand("jump"))
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnknownCommand, env.Error.Code)
	assert.Equal(t, "'jump' isn't a robot command", env.Error.Message)
	assert.NotEmpty(t, env.Error.Suggestion)
}

func TestErrorToJSON_Nil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_Generic(t *testing.T) {
	j := ErrorToJSON(stderrors.New("boom"))
	assert.Equal(t, ErrCodeUnknown, j.Code)
	assert.Equal(t, "boom", j.Message)
}

func TestMapErrorCode(t *testing.T) {
	tests := []struct {
		code    string
		message string
		want    string
	}{
		{errors.ErrConfig, "Config file not found", ErrCodeConfigNotFound},
		{errors.ErrConfig, "Robot address is empty", ErrCodeConfigInvalid},
		{errors.ErrConnect, "Connection refused", ErrCodeConnectFailed},
		{errors.ErrLink, "Not connected", ErrCodeLinkFailed},
		{errors.ErrTelemetry, "No reply", ErrCodeTelemetryFailed},
		{errors.ErrCommand, "bad", ErrCodeUnknownCommand},
		{"OTHER", "x", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorCode(tt.code, tt.message))
		})
	}
}

func TestErrorToJSON_DialError(t *testing.T) {
	ep := link.Endpoint{Address: "192.168.1.1", Port: 8080}

	tests := []struct {
		name   string
		reason link.DialFailReason
		want   string
	}{
		{"refused", link.DialFailRefused, ErrCodeConnectRefused},
		{"timeout", link.DialFailTimeout, ErrCodeConnectTimeout},
		{"unreachable", link.DialFailUnreachable, ErrCodeHostUnreachable},
		{"unknown", link.DialFailUnknown, ErrCodeConnectFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialErr := &link.DialError{Endpoint: ep, Reason: tt.reason, Cause: syscall.ECONNREFUSED}
			j := ErrorToJSON(dialErr)

			assert.Equal(t, tt.want, j.Code)
			assert.Equal(t, dialErr.Summary(), j.Message)

			details, ok := j.Details.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "192.168.1.1:8080", details["endpoint"])
			assert.Equal(t, tt.reason.String(), details["reason"])
		})
	}
}

func TestErrorToJSON_WrappedDialError(t *testing.T) {
	dialErr := &link.DialError{
		Endpoint: link.Endpoint{Address: "192.168.1.1", Port: 8080},
		Reason:   link.DialFailRefused,
	}
	wrapped := errors.WrapWithCode(dialErr, errors.ErrConnect,
		"Connection refused: robot not available", "Check the robot")

	j := ErrorToJSON(wrapped)
	assert.Equal(t, ErrCodeConnectRefused, j.Code, "dial reason wins over the wrapper's code")
	assert.Equal(t, "Connection refused: robot not available", j.Message)
}
