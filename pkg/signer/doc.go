// Package signer attaches the local payer signature to transactions built
// by the ledger service.
//
// The signer checks that its key is one of the transaction's required
// signers before signing, fills exactly one signature slot, and never
// touches the message bytes. A slot that already holds a signature is
// refused so a transaction cannot be signed twice in the same run.
package signer
