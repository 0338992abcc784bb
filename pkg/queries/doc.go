// Package queries reads ledger balances. Queries never sign or broadcast
// and may run concurrently with each other and with the pipeline.
package queries
