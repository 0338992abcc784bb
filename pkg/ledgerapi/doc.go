// Package ledgerapi is the HTTP transport for the custodial ledger service.
//
// The service builds unsigned transactions for named ledger operations
// (create_user, mint, transfer, deposit), accepts signed transactions on
// /broadcast, and answers read-only balance queries. This package sends
// those requests, decodes the base64 transaction blobs into
// solana.Transaction values, and classifies failures as TransportError,
// ServiceError or MalformedResponseError.
//
// Every call is single-shot. Retrying is left to callers, and only the
// read-only queries in package queries opt into it.
package ledgerapi
