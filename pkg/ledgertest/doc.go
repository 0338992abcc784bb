// Package ledgertest provides test helpers for code that talks to the
// ledger service: a builder for unsigned transaction fixtures and a
// recording HTTP double of the builder and broadcast endpoints.
package ledgertest
