package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	// NetworkUnreachableMessage is the user message for requests that never got a response.
	NetworkUnreachableMessage = "Unable to connect. Please check your internet connection and try again."

	// FallbackErrorMessage is used when an error response carries no message.
	FallbackErrorMessage = "An error occurred. Please try again."
)

// ErrorKind distinguishes the two failures the client reports itself.
type ErrorKind int

const (
	// RequestFailed: the server answered with a non-2xx status.
	RequestFailed ErrorKind = iota + 1
	// NetworkUnreachable: the request failed before any response was received.
	NetworkUnreachable
)

var errorKindNames = map[ErrorKind]string{
	RequestFailed:      "RequestFailed",
	NetworkUnreachable: "NetworkUnreachable",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is.
var (
	ErrRequestFailed      = errors.New("request failed")
	ErrNetworkUnreachable = errors.New("network unreachable")
)

// ClientError represents an error encountered when communicating with the storefront API.
// StatusCode 0 = network/connection error, >0 = HTTP response received.
//
// Error() returns the user-facing message; LogMessage carries the technical detail.
type ClientError struct {
	Kind        ErrorKind       `json:"kind"`
	StatusCode  int             `json:"status_code"`
	Code        string          `json:"error_code,omitempty"`
	UserMessage string          `json:"user_message"`
	LogMessage  string          `json:"log_message"`
	Body        json.RawMessage `json:"-"`
	Err         error           `json:"-"`
}

func (e *ClientError) Error() string {
	return e.UserMessage
}

// UserError returns the user-friendly message
func (e *ClientError) UserError() string {
	return e.UserMessage
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is matches ErrRequestFailed and ErrNetworkUnreachable by kind.
func (e *ClientError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return e.Kind == RequestFailed
	case ErrNetworkUnreachable:
		return e.Kind == NetworkUnreachable
	}
	return false
}

// Temporary reports whether the same request may succeed if sent again.
func (e *ClientError) Temporary() bool {
	if e.Kind == NetworkUnreachable {
		return true
	}
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a RequestFailed error.
func StatusCode(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Kind == RequestFailed {
		return ce.StatusCode
	}
	return 0
}

// NewClientConnectionError creates a ClientError for network/connection issues
func NewClientConnectionError(err error) *ClientError {
	return &ClientError{
		Kind:        NetworkUnreachable,
		StatusCode:  0,
		UserMessage: NetworkUnreachableMessage,
		LogMessage:  fmt.Sprintf("network error: %v", err),
		Err:         err,
	}
}

// NewClientApiError creates a ClientError from a non-2xx response.
//
// The message is the body's "message" field, else its "error" field, else FallbackErrorMessage.
// Only non-empty string values are used.
func NewClientApiError(statusCode int, body []byte) *ClientError {
	var serverErr struct {
		Message   any    `json:"message"`
		Error     any    `json:"error"`
		ErrorCode string `json:"error_code"`
	}

	userMsg := FallbackErrorMessage
	if err := json.Unmarshal(body, &serverErr); err == nil {
		if msg, ok := serverErr.Message.(string); ok && msg != "" {
			userMsg = msg
		} else if msg, ok := serverErr.Error.(string); ok && msg != "" {
			userMsg = msg
		}
	}

	logMsg := fmt.Sprintf("storefront api status %d", statusCode)
	if userMsg != FallbackErrorMessage {
		logMsg += fmt.Sprintf(" - %s", userMsg)
	}
	if serverErr.ErrorCode != "" {
		logMsg += fmt.Sprintf(" (%s)", serverErr.ErrorCode)
	}

	return &ClientError{
		Kind:        RequestFailed,
		StatusCode:  statusCode,
		Code:        serverErr.ErrorCode,
		UserMessage: userMsg,
		LogMessage:  logMsg,
		Body:        json.RawMessage(body),
	}
}
