// Package config loads client settings from a TOML file, then applies
// LEDGER_* environment overrides (see package shared) and defaults.
//
// Example file:
//
//	[api]
//	url = "http://127.0.0.1:5000"
//	timeout = "30s"
//
//	[rpc]
//	cluster = "devnet"
//
//	[program]
//	id = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"
//
//	[mint]
//	pubkey = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
//
//	[keypair]
//	path = "keys/full.json"
package config
