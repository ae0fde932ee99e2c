// Package common contains shared constants and sentinel errors used across
// the account service and its clients.
package common

// RequestIDHeaderName is the gRPC metadata key carrying the caller-supplied
// request id. When absent, the server generates one.
const RequestIDHeaderName = "x-request-id"

// RandomTokenSize is the number of random bytes behind every verification
// and password reset token. Hex encoding doubles the printable length.
const RandomTokenSize = 64
