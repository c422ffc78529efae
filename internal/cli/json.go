package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/raytop/internal/errors"
)

// Machine mode flag - when true, errors are written as a JSON envelope on stdout
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
	ErrCodeConfigNotFound    = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeAPIUnreachable    = "API_UNREACHABLE"
	ErrCodeAPIStatus         = "API_BAD_STATUS"
	ErrCodeAPIResponse       = "API_BAD_RESPONSE"
	ErrCodeSSHAuthFailed     = "SSH_AUTH_FAILED"
	ErrCodeSSHHostKey        = "SSH_HOST_KEY"
	ErrCodeSSHConnectionFail = "SSH_CONNECTION_FAILED"
	ErrCodeUIFailed          = "UI_FAILED"
	ErrCodeUnknown           = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
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
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var rtErr *errors.Error
	if !stderrors.As(err, &rtErr) {
		return &JSONError{
			Code:    ErrCodeUnknown,
			Message: err.Error(),
		}
	}

	// A failed SSH tunnel surfaces as the cause of an API error.
	var sshErr *errors.Error
	if rtErr.Code != errors.ErrSSH && rtErr.Cause != nil &&
		stderrors.As(rtErr.Cause, &sshErr) && sshErr.Code == errors.ErrSSH {
		return &JSONError{
			Code:       mapErrorCode(sshErr.Code, sshErr.Message),
			Message:    sshErr.Message,
			Suggestion: sshErr.Suggestion,
			Details:    map[string]interface{}{"during": rtErr.Message},
		}
	}

	jsonErr := &JSONError{
		Code:       mapErrorCode(rtErr.Code, rtErr.Message),
		Message:    rtErr.Message,
		Suggestion: rtErr.Suggestion,
	}
	if rtErr.Cause != nil {
		jsonErr.Details = map[string]interface{}{"cause": rtErr.Cause.Error()}
	}
	return jsonErr
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	msgLower := strings.ToLower(message)

	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrAPI:
		switch {
		case strings.Contains(msgLower, "can't reach"):
			return ErrCodeAPIUnreachable
		case strings.Contains(msgLower, "returned"):
			return ErrCodeAPIStatus
		}
		return ErrCodeAPIResponse
	case errors.ErrSSH:
		switch {
		case strings.Contains(msgLower, "host key"):
			return ErrCodeSSHHostKey
		case strings.Contains(msgLower, "handshake"), strings.Contains(msgLower, "encrypted"):
			return ErrCodeSSHAuthFailed
		}
		return ErrCodeSSHConnectionFail
	case errors.ErrUI:
		return ErrCodeUIFailed
	}

	return ErrCodeUnknown
}
