// Package heapsnap captures heap snapshots of the running process.
//
// Write produces a single snapshot file with a collision-resistant,
// lexicographically sortable name. StartAuto drives periodic captures
// on a single goroutine so that no two captures ever overlap, and
// SnapEvery takes a fixed number of sequential captures for manual
// before/after comparisons.
//
// Snapshot files are opaque runtime heap-profile output; this package
// never parses them.
package heapsnap
