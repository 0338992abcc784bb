package pipeline

import "github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"

type State int

const (
	StateRequested State = iota
	StateUnsignedReceived
	StateSigned
	// StateBroadcast means the signed transaction has been handed to the
	// service and no handle has come back yet.
	StateBroadcast
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateUnsignedReceived:
		return "unsigned_received"
	case StateSigned:
		return "signed"
	case StateBroadcast:
		return "broadcast"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed
}

// Record describes one run. It is handed to observers on every transition
// and returned from Execute; the pipeline keeps no copy.
type Record struct {
	Operation string
	Route     string
	State     State
	Signature ledgerapi.ConfirmationHandle
}

// Observer receives a snapshot after every state transition.
type Observer func(Record)
