package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/myloggi/internal/domain"
)

// FieldError is one entry of the API's "errors" array
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// ErrorBody is the uniform error shape every failed call is normalized into
type ErrorBody struct {
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Error is returned by every Client method that did not get a 2xx response.
// Status is zero when no response arrived.
type Error struct {
	Status int
	Body   ErrorBody
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Body.Error
	if msg == "" {
		msg = e.Body.Message
	}
	if msg == "" && len(e.Body.Errors) > 0 {
		msg = fmt.Sprintf("%d field error(s)", len(e.Body.Errors))
	}
	if e.Status == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("api request failed: %s: %v", msg, e.Cause)
		}
		return "api request failed: " + msg
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasResponse reports whether the API answered at all
func (e *Error) HasResponse() bool {
	return e.Status != 0
}

// FieldErrors turns the "errors" array into a field->message map
func (e *Error) FieldErrors() domain.FieldErrors {
	fields := domain.FieldErrors{}
	for _, fe := range e.Body.Errors {
		if fe.Path == "" {
			continue
		}
		fields.Add(fe.Path, fe.Msg)
	}
	return fields
}

// AsError extracts an *Error from err
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// wireErrorBody accepts "error" as either a string or any other JSON value
type wireErrorBody struct {
	Error   json.RawMessage `json:"error"`
	Errors  []FieldError    `json:"errors"`
	Message string          `json:"message"`
}

// decodeErrorBody normalizes a non-2xx body; non-JSON bodies become the error text
func decodeErrorBody(raw []byte) ErrorBody {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ErrorBody{}
	}

	var wire wireErrorBody
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return ErrorBody{Error: string(trimmed)}
	}

	body := ErrorBody{Errors: wire.Errors, Message: wire.Message}
	if len(wire.Error) > 0 && string(wire.Error) != "null" {
		var s string
		if err := json.Unmarshal(wire.Error, &s); err == nil {
			body.Error = s
		} else {
			body.Error = strings.TrimSpace(string(wire.Error))
		}
	}
	return body
}
