// Package scheduler runs the engine's per-frame stages. Stages execute
// in a fixed order every tick; within a stage, steps declare ordering
// dependencies on each other and independent steps run concurrently on a
// worker pool. The asset pipeline registers its drain steps here, one
// per (type, loader, source kind) combination, and expresses cross-type
// load ordering purely as step dependencies.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/vesper-engine/vesper/engine/core"
)

// StageAssets is the conventional stage for asset drain steps.
const StageAssets = "assets"

var ErrNoWorkers = fmt.Errorf("attempting to create scheduler with less than 1 worker")

// StepFunc is the body of one scheduler step.
type StepFunc func() error

type step struct {
	name  string
	fn    StepFunc
	after []string
}

type stage struct {
	name  string
	steps map[string]*step
	order []string // insertion order, for stable scheduling
}

type job struct {
	step *step
	wg   *sync.WaitGroup
	errs *errorSink
}

type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (e *errorSink) add(err error) {
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

// Scheduler owns the stage list and the worker pool.
type Scheduler struct {
	workers int
	jobs    chan job
	wg      sync.WaitGroup

	mu      sync.Mutex
	stages  []*stage
	byName  map[string]*stage
	dirty   bool
	clock   *core.Clock
	started bool
}

// New creates a scheduler with a pool of numWorkers workers.
func New(numWorkers int) (*Scheduler, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}

	s := &Scheduler{
		workers: numWorkers,
		jobs:    make(chan job, numWorkers*4),
		byName:  make(map[string]*stage),
		clock:   core.NewClock(),
	}
	core.MetricsInitialize()
	s.start()
	return s, nil
}

func (s *Scheduler) start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for j := range s.jobs {
				if err := j.step.fn(); err != nil {
					j.errs.add(fmt.Errorf("step %s: %w", j.step.name, err))
				}
				j.wg.Done()
			}
		}()
	}
}

// Shutdown stops the worker pool. The scheduler cannot tick afterwards.
func (s *Scheduler) Shutdown() error {
	close(s.jobs)
	s.wg.Wait()
	return nil
}

// AddStage appends a stage to the end of the tick order.
func (s *Scheduler) AddStage(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("stage %q already exists", name)
	}
	st := &stage{name: name, steps: make(map[string]*step)}
	s.stages = append(s.stages, st)
	s.byName[name] = st
	return nil
}

// AddStageBefore inserts a stage ahead of an existing one.
func (s *Scheduler) AddStageBefore(name, before string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("stage %q already exists", name)
	}
	idx := -1
	for i, st := range s.stages {
		if st.name == before {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("stage %q not found", before)
	}
	st := &stage{name: name, steps: make(map[string]*step)}
	s.stages = append(s.stages[:idx], append([]*stage{st}, s.stages[idx:]...)...)
	s.byName[name] = st
	return nil
}

// StepOption modifies a step at registration.
type StepOption func(*step)

// After orders the step behind the named steps of the same stage.
func After(names ...string) StepOption {
	return func(st *step) {
		st.after = append(st.after, names...)
	}
}

// AddStep registers a step in a stage. Dependencies may name steps that
// are registered later in startup; the whole graph is validated before
// the first tick that uses it, and a bad graph fails the tick.
func (s *Scheduler) AddStep(stageName, name string, fn StepFunc, opts ...StepOption) error {
	if fn == nil {
		return fmt.Errorf("step %q: nil func", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byName[stageName]
	if !ok {
		return fmt.Errorf("stage %q not found", stageName)
	}
	if _, ok := st.steps[name]; ok {
		return fmt.Errorf("step %q already exists in stage %q", name, stageName)
	}
	sp := &step{name: name, fn: fn}
	for _, o := range opts {
		o(sp)
	}
	st.steps[name] = sp
	st.order = append(st.order, name)
	s.dirty = true
	return nil
}

// Validate checks every stage's dependency graph: all referenced steps
// exist and no cycles.
func (s *Scheduler) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Scheduler) validateLocked() error {
	for _, st := range s.stages {
		for _, name := range st.order {
			for _, dep := range st.steps[name].after {
				if _, ok := st.steps[dep]; !ok {
					return fmt.Errorf("stage %q: step %q depends on unknown step %q", st.name, name, dep)
				}
			}
		}
		if _, err := st.waves(); err != nil {
			return fmt.Errorf("stage %q: %w", st.name, err)
		}
	}
	s.dirty = false
	return nil
}

// waves groups the stage's steps into dependency levels: every step in a
// wave only depends on steps of earlier waves.
func (st *stage) waves() ([][]*step, error) {
	indeg := make(map[string]int, len(st.steps))
	dependents := make(map[string][]string, len(st.steps))
	for _, name := range st.order {
		indeg[name] = len(st.steps[name].after)
		for _, dep := range st.steps[name].after {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var waves [][]*step
	remaining := len(st.steps)
	ready := make([]string, 0, len(st.steps))
	for _, name := range st.order {
		if indeg[name] == 0 {
			ready = append(ready, name)
		}
	}
	for len(ready) > 0 {
		wave := make([]*step, 0, len(ready))
		next := ready[:0:0]
		for _, name := range ready {
			wave = append(wave, st.steps[name])
			remaining--
			for _, dep := range dependents[name] {
				indeg[dep]--
				if indeg[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		waves = append(waves, wave)
		ready = next
	}
	if remaining != 0 {
		return nil, fmt.Errorf("dependency cycle among steps")
	}
	return waves, nil
}

// Tick runs every stage once, in order. Independent steps of a stage run
// concurrently; a step never starts before all of its dependencies have
// finished. Step errors do not stop the tick; they are joined and
// returned.
func (s *Scheduler) Tick() error {
	s.mu.Lock()
	if s.dirty {
		if err := s.validateLocked(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	stages := s.stages
	s.mu.Unlock()

	if !s.started {
		s.clock.Start()
		s.started = true
	}

	errs := &errorSink{}
	for _, st := range stages {
		s.runStage(st, errs)
	}

	s.clock.Update()
	core.MetricsUpdate(s.clock.Elapsed() / 1e9)
	s.clock.Start()

	if len(errs.errs) > 0 {
		return joinErrors(errs.errs)
	}
	return nil
}

// RunStage runs a single stage once, outside the regular tick order.
func (s *Scheduler) RunStage(name string) error {
	s.mu.Lock()
	if s.dirty {
		if err := s.validateLocked(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	st, ok := s.byName[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("stage %q not found", name)
	}
	errs := &errorSink{}
	s.runStage(st, errs)
	if len(errs.errs) > 0 {
		return joinErrors(errs.errs)
	}
	return nil
}

func (s *Scheduler) runStage(st *stage, errs *errorSink) {
	waves, err := st.waves()
	if err != nil {
		errs.add(fmt.Errorf("stage %s: %w", st.name, err))
		return
	}
	for _, wave := range waves {
		var wg sync.WaitGroup
		for _, sp := range wave {
			wg.Add(1)
			s.jobs <- job{step: sp, wg: &wg, errs: errs}
		}
		wg.Wait()
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	err := errs[0]
	for _, e := range errs[1:] {
		err = fmt.Errorf("%w; %v", err, e)
	}
	return err
}
