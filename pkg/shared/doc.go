// Package shared provides common utilities used across the ledger SDK. It
// includes Solana cluster normalization, default RPC endpoint resolution,
// and environment variable overrides for the client settings.
//
// This package is typically used internally by other SDK packages but is
// also available for direct use when building custom integrations.
//
// # Environment Variables
//
// Overrides are read from the process environment, falling back to the
// first .env file found while walking up from the working directory.
// Variables already holding a non-empty value are never replaced by .env
// values.
//
//   - LEDGER_API_URL, LEDGER_API_KEY
//   - LEDGER_RPC_URL (or SOLANA_RPC_URL), LEDGER_CLUSTER
//   - LEDGER_PROGRAM_ID, LEDGER_MINT_PUBKEY
//   - LEDGER_KEYPAIR_PATH
package shared
