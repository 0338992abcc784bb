// The Ledger SDK for Go is a client for a custodial token ledger running as
// a Solana program. A remote service builds unsigned transactions for each
// ledger operation; the SDK signs them locally with the payer key and hands
// them back for broadcast, so the private key never leaves the process.
//
// # Packages
//
//   - pkg/ledger: high-level client wiring settings, signing, the operation
//     pipeline, balance queries and account derivation
//   - pkg/ledgerapi: HTTP transport for the ledger service
//   - pkg/pipeline: build, sign and broadcast state machine
//   - pkg/signer: local Ed25519 signing of service-built transactions
//   - pkg/queries: read-only balance and supply queries
//   - pkg/derive: treasury and associated token account addresses
//   - pkg/config, pkg/keys, pkg/logging, pkg/shared: settings, keypair
//     files, zap loggers and Solana cluster helpers
//
// # Command Line
//
// cmd/ledgerctl exposes every operation as a subcommand and a demo that runs
// create user, mint, deposit and the balance queries in sequence.
//
// # Installation
//
//	go get github.com/custody-labs/ledger-sdk-go@latest
package ledgersdk
