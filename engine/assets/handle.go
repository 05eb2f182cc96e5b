// Package assets implements the engine's asset-loading pipeline: typed
// handles backed by per-type stores, load queues that hand out provisional
// handles without blocking, and drain steps the frame scheduler executes
// to turn queued requests into stored resources.
package assets

import (
	"fmt"

	"github.com/vesper-engine/vesper/engine/core"
)

// Handle is a typed, copyable reference to one resource. It carries no
// ownership; the store owns the data, the handle is a lookup key. Two
// handles are equal iff their ids are equal, so handles work as map keys.
//
// A handle starts provisional and becomes either resolved (the store has
// an entry for it) or failed (the pipeline recorded a load failure for
// it). Both end states are terminal.
type Handle[T any] struct {
	id core.ResourceID
}

// ID returns the underlying resource id.
func (h Handle[T]) ID() core.ResourceID {
	return h.id
}

// Valid reports whether the handle was issued by a queue.
func (h Handle[T]) Valid() bool {
	return h.id.Valid()
}

// Resolved reports whether the store holds a value for this handle.
// Pure query, never blocks.
func (h Handle[T]) Resolved(s *Store[T]) bool {
	return s.Has(h.id)
}

// Get returns the stored value for this handle, if resolved.
// Pure query, never blocks.
func (h Handle[T]) Get(s *Store[T]) (T, bool) {
	return s.Get(h.id)
}

func (h Handle[T]) String() string {
	var zero T
	return fmt.Sprintf("Handle[%T](%d)", zero, h.id)
}
