package assets

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vesper-engine/vesper/engine/containers"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/vfs"
)

// PipelineConfig controls one pipeline instance.
type PipelineConfig struct {
	// Workers bounds how many load calls run in parallel inside one
	// drain.
	Workers int
	// Strict makes a duplicate publish fatal instead of warn-and-ignore.
	Strict bool
	// FailureJournalSize bounds the recent-failure journal.
	FailureJournalSize int
}

type queueKey struct {
	tag  reflect.Type
	kind SourceKind
}

// FailureRecord is the terminal state of a failed load, queryable per
// resource id.
type FailureRecord struct {
	ID     core.ResourceID
	Source string
	Err    error
	At     time.Time
}

// Pipeline owns the typed stores, the registered (type, loader, source
// kind) queues and the failure records. Callers push requests onto queues
// and observe results through handles; the scheduler runs the drains.
type Pipeline struct {
	fs      *vfs.Filesystem
	workers int
	strict  bool

	stores *storeRegistry

	regMu  sync.Mutex
	queues map[queueKey]string // registered combination -> name

	failMu   sync.RWMutex
	failures map[core.ResourceID]FailureRecord
	journal  *containers.RingQueue[FailureRecord]
}

// NewPipeline creates a pipeline reading from fs.
func NewPipeline(config *PipelineConfig, fs *vfs.Filesystem) (*Pipeline, error) {
	if config.Workers <= 0 {
		err := fmt.Errorf("func NewPipeline - config.Workers must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	journalSize := config.FailureJournalSize
	if journalSize <= 0 {
		journalSize = 64
	}
	return &Pipeline{
		fs:       fs,
		workers:  config.Workers,
		strict:   config.Strict,
		stores:   newStoreRegistry(),
		queues:   make(map[queueKey]string),
		failures: make(map[core.ResourceID]FailureRecord),
		journal:  containers.NewRingQueue[FailureRecord](journalSize),
	}, nil
}

// Register wires a loader for one (T, source kind) combination and
// returns its queue. Registering the same combination twice, or a nil
// loader, is a configuration fault and fails here rather than at first
// push.
func Register[T any](p *Pipeline, name string, kind SourceKind, loader Loader[T]) (*Queue[T], error) {
	if loader == nil {
		err := fmt.Errorf("register %s: nil loader: %w", name, core.ErrNoLoaderRegistered)
		core.LogError(err.Error())
		return nil, err
	}
	if kind == SourceKindNone {
		err := fmt.Errorf("register %s: source kind is required", name)
		core.LogError(err.Error())
		return nil, err
	}

	key := queueKey{tag: typeTag[T](), kind: kind}
	p.regMu.Lock()
	defer p.regMu.Unlock()
	if existing, ok := p.queues[key]; ok {
		err := fmt.Errorf("register %s: combination (%s, %s) already registered as %q", name, key.tag, kind, existing)
		core.LogError(err.Error())
		return nil, err
	}
	p.queues[key] = name

	return &Queue[T]{
		name:     name,
		kind:     kind,
		loader:   loader,
		pipeline: p,
		store:    StoreOf[T](p),
		paths:    make(map[string]Handle[T]),
	}, nil
}

// MustRegister is Register for startup wiring: a configuration fault
// here is fatal.
func MustRegister[T any](p *Pipeline, name string, kind SourceKind, loader Loader[T]) *Queue[T] {
	q, err := Register[T](p, name, kind, loader)
	if err != nil {
		core.LogFatal("asset pipeline registration failed: %v", err)
	}
	return q
}

// Combinations lists the registered combination names, sorted.
func (p *Pipeline) Combinations() []string {
	p.regMu.Lock()
	defer p.regMu.Unlock()
	names := maps.Values(p.queues)
	slices.Sort(names)
	return names
}

// Failure returns the failure record for id, if the load failed.
func (p *Pipeline) Failure(id core.ResourceID) (FailureRecord, bool) {
	p.failMu.RLock()
	defer p.failMu.RUnlock()
	rec, ok := p.failures[id]
	return rec, ok
}

// Failed reports whether the load for id failed. A false result means
// the handle is either still provisional or resolved; consumers must
// treat provisional as not-ready, never as an error.
func (p *Pipeline) Failed(id core.ResourceID) bool {
	p.failMu.RLock()
	defer p.failMu.RUnlock()
	_, ok := p.failures[id]
	return ok
}

// RecentFailures returns the journal of recent failures, oldest first.
func (p *Pipeline) RecentFailures() []FailureRecord {
	p.failMu.RLock()
	defer p.failMu.RUnlock()
	return p.journal.Items()
}

// recordFailure classifies err, attaches it to id and journals it.
// Failures are terminal: re-requesting a resource means a fresh push
// with a fresh identity.
func (p *Pipeline) recordFailure(id core.ResourceID, source string, err error) {
	if !errors.Is(err, core.ErrSourceNotFound) &&
		!errors.Is(err, core.ErrNoLoaderRegistered) &&
		!errors.Is(err, core.ErrDecodeFailed) {
		err = fmt.Errorf("%w: %v", core.ErrDecodeFailed, err)
	}
	rec := FailureRecord{ID: id, Source: source, Err: err, At: time.Now()}

	p.failMu.Lock()
	if _, ok := p.failures[id]; !ok {
		p.failures[id] = rec
		p.journal.EnqueueEvict(rec)
	}
	p.failMu.Unlock()

	core.MetricsCountFailure()
	core.LogWarn("load %d (%s) failed: %v", id, source, err)
}
