// Package common contains shared constants and sentinel errors used across
// POS client components.
package common

// IdempotencyKeyHeaderName is the HTTP header carrying the client-generated
// temp id of a queued sale. The server deduplicates create-sale requests by
// this value across retries.
const IdempotencyKeyHeaderName = "Idempotency-Key"

// AuthorizationHeaderName is the HTTP header carrying the opaque API token.
const AuthorizationHeaderName = "Authorization"

// TempIDPrefix tags locally-queued sale identifiers in any merged view so
// they cannot be confused with server-issued sale ids.
const TempIDPrefix = "temp:"
