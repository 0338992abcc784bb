package derive

import "fmt"

// DerivationError reports an address that could not be computed or
// resolved. Input names the offending value or step.
type DerivationError struct {
	Input string
	Cause error
}

func (e *DerivationError) Error() string {
	if e == nil {
		return "address derivation failed"
	}
	if e.Cause == nil {
		return fmt.Sprintf("address derivation failed for %s", e.Input)
	}
	return fmt.Sprintf("address derivation failed for %s: %v", e.Input, e.Cause)
}

func (e *DerivationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
