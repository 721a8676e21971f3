// Package emitter provides a minimal in-process event emitter.
//
// Listeners are kept in registration order per event name and are
// invoked synchronously on the caller's goroutine. The emitter is
// safe for concurrent use.
package emitter
