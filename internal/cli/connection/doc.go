// Package connection provides the HTTP client for leaklab-cli.
//
// This package manages connections to a running leaklab-server:
//
//   - http.go: HTTP client with envelope-aware response parsing
//
// The server's JSON responses use a standard envelope; ParseEnvelope
// unwraps the data payload and surfaces error codes as Go errors.
package connection
