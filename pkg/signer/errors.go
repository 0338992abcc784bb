package signer

import "fmt"

// SigningError reports a key or transaction that cannot be signed. It is
// always returned before anything is broadcast.
type SigningError struct {
	Reason string
	Cause  error
}

func (e *SigningError) Error() string {
	if e == nil {
		return "signing failed"
	}
	if e.Cause == nil {
		return fmt.Sprintf("signing failed: %s", e.Reason)
	}
	return fmt.Sprintf("signing failed: %s: %v", e.Reason, e.Cause)
}

func (e *SigningError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
