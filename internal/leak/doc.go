// Package leak implements the five leak-pattern engines behind the
// demo service: timer, cache, closure, event-listener and
// global-variable leaks.
//
// Every engine is an independent Idle/Leaking state machine with the
// same lifecycle: Start installs a one-second accumulation ticker,
// Stop halts the ticker and releases everything it accumulated, and
// Status reports the item count plus a fixed-constant memory estimate.
// Starting a leaking engine is an "already running" no-op; stopping an
// idle engine clears nothing and is not an error.
//
// The leaks are intentional. Engines hold real page-touched buffers so
// heap snapshots taken while leaking show genuine growth.
package leak
