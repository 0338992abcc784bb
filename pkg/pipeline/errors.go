package pipeline

import "fmt"

// OperationError wraps the error that stopped a run. State is the state
// the run was in when the stage failed; errors.As still reaches the
// underlying ledgerapi or signer error.
type OperationError struct {
	Operation string
	State     State
	Cause     error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "ledger operation failed"
	}
	return fmt.Sprintf("ledger operation %s failed at %s: %v", e.Operation, e.State, e.Cause)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
