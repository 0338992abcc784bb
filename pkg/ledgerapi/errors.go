package ledgerapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// TransportError reports a request that never produced an HTTP response:
// connection failures, TLS errors, timeouts and cancellation.
type TransportError struct {
	Method string
	Route  string
	Cause  error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "ledger API transport error"
	}
	return fmt.Sprintf("ledger API %s /%s transport error: %v", e.Method, e.Route, e.Cause)
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Timeout reports whether the request gave up waiting.
func (e *TransportError) Timeout() bool {
	if e == nil || e.Cause == nil {
		return false
	}
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// ServiceError is a non-2xx response from the ledger service.
type ServiceError struct {
	Route      string
	Status     int
	StatusText string
	Body       string
}

func (e *ServiceError) Error() string {
	if e == nil {
		return "ledger API request failed"
	}
	if e.Body == "" {
		return fmt.Sprintf("ledger API /%s failed with status %d", e.Route, e.Status)
	}
	return fmt.Sprintf("ledger API /%s failed with status %d: %s", e.Route, e.Status, e.Body)
}

// Temporary reports whether the status suggests the same request may
// succeed later.
func (e *ServiceError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// MalformedResponseError is a 2xx response whose body does not carry the
// expected field, or carries it in an undecodable form.
type MalformedResponseError struct {
	Route string
	Field string
	Body  string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e == nil {
		return "ledger API malformed response"
	}
	message := fmt.Sprintf("ledger API /%s returned a malformed response", e.Route)
	if e.Field != "" {
		message = fmt.Sprintf("%s (field %q)", message, e.Field)
	}
	if e.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, e.Cause)
	}
	return message
}

func (e *MalformedResponseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
