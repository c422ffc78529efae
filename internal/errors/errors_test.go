package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrAPI,
		ErrSSH,
		ErrUI,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .raytop.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "api error",
			code:       ErrAPI,
			message:    "Dashboard returned 502",
			suggestion: "Is the dashboard running?",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "Can't reach head node",
			suggestion: "Try: ssh head",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapWithCode(cause, ErrAPI, "Couldn't fetch nodes", "Check --address")

	out := err.Error()
	assert.True(t, strings.HasPrefix(out, "✗ Couldn't fetch nodes\n"))
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "Check --address")

	// Cause comes before the suggestion
	assert.Less(t, strings.Index(out, "connection refused"), strings.Index(out, "Check --address"))
}

func TestErrorFormatting_NoSuggestion(t *testing.T) {
	err := New(ErrUI, "Terminal too small", "")
	assert.Equal(t, "✗ Terminal too small\n", err.Error())
}

func TestWrap_DefaultsToAPI(t *testing.T) {
	err := Wrap(errors.New("boom"), "request failed")
	assert.Equal(t, ErrAPI, err.Code)
	assert.Equal(t, "request failed", err.Message)
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := WrapWithCode(sentinel, ErrConfig, "bad", "")

	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, sentinel, err.Unwrap())
}

func TestIsCode(t *testing.T) {
	err := New(ErrSSH, "nope", "")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsCode(err, ErrSSH))
	assert.True(t, IsCode(wrapped, ErrSSH))
	assert.False(t, IsCode(err, ErrAPI))
	assert.False(t, IsCode(nil, ErrSSH))
	assert.False(t, IsCode(errors.New("plain"), ErrSSH))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("plain failure"), "plain failure"},
		{"structured no cause", New(ErrAPI, "Dashboard returned 500", "retry"), "Dashboard returned 500"},
		{"structured with cause", WrapWithCode(errors.New("EOF"), ErrAPI, "Couldn't decode", ""), "Couldn't decode: EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.err))
		})
	}
}
