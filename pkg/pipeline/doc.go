// Package pipeline runs ledger operations end to end.
//
// Each Operation maps to one builder route and a fixed payload. Execute
// requests the unsigned transaction, signs it once with the payer key and
// broadcasts it, returning the confirmation handle. A failing stage aborts
// the run; nothing is retried or rolled back, and running the same
// operation twice produces two ledger effects.
//
// Runs move through Requested, UnsignedReceived, Signed, Broadcast and
// Confirmed. Failed is reachable from every non-terminal state.
package pipeline
