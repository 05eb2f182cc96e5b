package assets

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vesper-engine/vesper/engine/core"
)

// Store maps resource ids to loaded values of one type. Entries are
// published only by drain steps and persist until explicitly removed.
type Store[T any] struct {
	name string

	mu    sync.RWMutex
	items map[core.ResourceID]T
}

func newStore[T any]() *Store[T] {
	var zero T
	return &Store[T]{
		name:  fmt.Sprintf("%T", zero),
		items: make(map[core.ResourceID]T),
	}
}

// Get returns the value stored for id.
func (s *Store[T]) Get(id core.ResourceID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// Has reports whether id has a stored value.
func (s *Store[T]) Has(id core.ResourceID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Len returns the number of stored entries.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Remove deletes the entry for id, if any. The owning subsystem calls
// this when a resource's lifetime ends; nothing is evicted automatically.
func (s *Store[T]) Remove(id core.ResourceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

// IDs returns the ids of all stored entries, unordered.
func (s *Store[T]) IDs() []core.ResourceID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]core.ResourceID, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	return ids
}

// publish inserts a freshly loaded value. A second insert for the same id
// violates the one-entry-per-id invariant and is rejected.
func (s *Store[T]) publish(id core.ResourceID, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return fmt.Errorf("store %s id %d: %w", s.name, id, core.ErrDuplicatePublish)
	}
	s.items[id] = value
	return nil
}

// storeRegistry maps a runtime type tag to the concrete Store for that
// type. Access goes through the generic StoreOf so values stay concrete
// inside each store; nothing downcasts the stored data itself.
type storeRegistry struct {
	mu     sync.RWMutex
	stores map[reflect.Type]any
}

func newStoreRegistry() *storeRegistry {
	return &storeRegistry{stores: make(map[reflect.Type]any)}
}

func typeTag[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// StoreOf returns the pipeline's store for type T, creating it on first
// use.
func StoreOf[T any](p *Pipeline) *Store[T] {
	tag := typeTag[T]()

	p.stores.mu.RLock()
	existing, ok := p.stores.stores[tag]
	p.stores.mu.RUnlock()
	if ok {
		return existing.(*Store[T])
	}

	p.stores.mu.Lock()
	defer p.stores.mu.Unlock()
	if existing, ok := p.stores.stores[tag]; ok {
		return existing.(*Store[T])
	}
	s := newStore[T]()
	p.stores.stores[tag] = s
	return s
}
