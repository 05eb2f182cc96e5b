package assets

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vesper-engine/vesper/engine/core"
)

// loadRequest pairs a provisional handle with the source it loads from.
// Created at push, consumed exactly once by a drain.
type loadRequest[T any] struct {
	handle Handle[T]
	source Source
}

// Queue buffers pending load requests for one (resource type, loader,
// source kind) combination. Push is safe from any goroutine and never
// performs I/O; Drain is meant to run as a scheduler step.
type Queue[T any] struct {
	name     string
	kind     SourceKind
	loader   Loader[T]
	pipeline *Pipeline
	store    *Store[T]

	mu      sync.Mutex
	pending []loadRequest[T]
	paths   map[string]Handle[T]
}

// Name returns the combination name given at registration, used for
// scheduler step naming and logs.
func (q *Queue[T]) Name() string {
	return q.name
}

// Kind returns the source kind this queue accepts.
func (q *Queue[T]) Kind() SourceKind {
	return q.kind
}

// Store returns the typed store this queue publishes into.
func (q *Queue[T]) Store() *Store[T] {
	return q.store
}

// Push allocates a fresh id, appends a request and returns the
// provisional handle immediately. A source of the wrong kind yields a
// handle that is already failed; the push itself never blocks.
func (q *Queue[T]) Push(src Source) Handle[T] {
	h := Handle[T]{id: core.NextResourceID()}

	if src == nil || src.Kind() != q.kind {
		kind := SourceKindNone
		desc := "nil"
		if src != nil {
			kind = src.Kind()
			desc = src.Describe()
		}
		core.LogError("queue %s: pushed %s source, accepts only %s", q.name, kind, q.kind)
		q.pipeline.recordFailure(h.id, desc, core.ErrNoLoaderRegistered)
		return h
	}

	q.mu.Lock()
	q.pending = append(q.pending, loadRequest[T]{handle: h, source: src})
	if ps, ok := src.(PathSource); ok {
		q.paths[ps.Path] = h
	}
	q.mu.Unlock()

	core.MetricsCountPush()
	return h
}

// FindByPath returns the handle of the most recent push for a path.
// Lookup only; pushing the same path twice still issues two identities.
func (q *Queue[T]) FindByPath(path string) (Handle[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h, ok := q.paths[path]
	return h, ok
}

// Pending returns the number of queued requests.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// take atomically removes and returns every currently queued request.
// A push racing with take lands either in this batch or the next one.
func (q *Queue[T]) take() []loadRequest[T] {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	return batch
}

// Drain empties the queue and executes the loader for every request.
// Loads run in parallel on the pipeline's worker budget and are joined
// before any store insertion; publishing is serialized by the store.
// Per-request failures are recorded against their handle and do not
// abort the rest of the batch. Draining an empty queue is a no-op.
//
// Drain is the body of this combination's scheduler step; the scheduler
// decides how drains of different combinations are ordered.
func (q *Queue[T]) Drain() error {
	batch := q.take()
	if len(batch) == 0 {
		return nil
	}

	batchID := uuid.New().String()[:8]
	core.LogDebug("queue %s: drain %s, %d request(s)", q.name, batchID, len(batch))

	type outcome struct {
		value T
		err   error
	}
	outcomes := make([]outcome, len(batch))

	ctx := &LoadContext{fs: q.pipeline.fs}
	sem := make(chan struct{}, q.pipeline.workers)
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := q.loader.Load(ctx, batch[i].source)
			outcomes[i] = outcome{value: v, err: err}
		}(i)
	}
	wg.Wait()

	for i, req := range batch {
		if err := outcomes[i].err; err != nil {
			q.pipeline.recordFailure(req.handle.id, req.source.Describe(), err)
			continue
		}
		if err := q.store.publish(req.handle.id, outcomes[i].value); err != nil {
			if q.pipeline.strict {
				core.LogFatal("queue %s: drain %s: %v", q.name, batchID, err)
			}
			core.LogWarn("queue %s: drain %s: %v (ignored)", q.name, batchID, err)
			continue
		}
		core.MetricsCountPublish()
	}
	return nil
}
