// Package treectx provides hierarchical cancellation contexts for
// asynchronous tasks. A Context is a node in a cancellation tree:
// cancelling it resolves every race spawned through it and, one scheduling
// round per level, through all of its live descendants, without the tree
// ever being stored as a retained graph.
package treectx
