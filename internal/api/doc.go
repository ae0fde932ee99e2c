// Package api holds the wire contract of the account service shared by the
// server and the client: method names, JSON message types with their
// validation rules, and the gRPC codec that carries them.
package api
