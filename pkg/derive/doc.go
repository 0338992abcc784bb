// Package derive computes the ledger's on-chain addresses.
//
// The treasury is a program-derived address over the seed "treasury" and
// the mint, owned by the ledger program; it must match the program's own
// derivation byte for byte. User balances live in associated token
// accounts, which Deriver creates on demand through chain JSON-RPC.
package derive
