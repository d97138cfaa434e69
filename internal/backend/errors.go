package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized marks a missing, expired or rejected credential.
// An *APIError with status 401 matches it through errors.Is.
var ErrUnauthorized = errors.New("backend: unauthorized")

// GenericTransportMessage is shown when the backend cannot be reached.
const GenericTransportMessage = "Não foi possível conectar ao servidor."

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 response.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TransportError wraps a failure to reach the backend at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUnauthorized reports whether err should send the user back to login.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message turns any error from this package into the text shown to users.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Detail
	case IsTransport(err):
		return GenericTransportMessage
	default:
		return err.Error()
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// newAPIError builds an APIError from a status and the raw response body.
func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if d := StringifyDetail(eb.Detail); d != "" {
			return &APIError{StatusCode: status, Detail: d}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return &APIError{StatusCode: status, Detail: text}
	}
	return &APIError{StatusCode: status, Detail: http.StatusText(status)}
}

// StringifyDetail renders a `detail` value as text. Strings are returned
// as-is; objects and lists are re-encoded as compact JSON.
func StringifyDetail(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
