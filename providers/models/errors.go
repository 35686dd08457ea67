package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a completion failure so the caller can render a
// specific message.
type ErrorKind int

const (
	// TransportError covers connection failures, timeouts, DNS failures
	// and 5xx responses that survived the retry ceiling.
	TransportError ErrorKind = iota
	// AuthenticationError is a 401 or 403 response. Never retried.
	AuthenticationError
	// RateLimitError is a 429 response that survived the retry ceiling.
	RateLimitError
	// RequestError is any other 4xx response. Never retried.
	RequestError
	// MalformedResponseError is a 200 response the expected completion
	// text could not be parsed out of.
	MalformedResponseError
)

func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport error"
	case AuthenticationError:
		return "authentication error"
	case RateLimitError:
		return "rate limit error"
	case RequestError:
		return "request error"
	case MalformedResponseError:
		return "malformed response error"
	default:
		return "unknown error"
	}
}

// Error is a classified completion failure. Status is zero when the
// failure happened before an HTTP response was received.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is (or wraps) a classified Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind == kind
	}
	return false
}
