// Package engine is the composition root: it wires the virtual
// filesystem, the asset pipeline and the frame scheduler together from
// one configuration.
package engine

import (
	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/config"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/scheduler"
	"github.com/vesper-engine/vesper/engine/vfs"
)

type Engine struct {
	config    *config.Config
	fs        *vfs.Filesystem
	pipeline  *assets.Pipeline
	scheduler *scheduler.Scheduler
}

// New builds an engine from configuration. The asset stage exists from
// the start; callers register drain steps into it and add further stages
// around it.
func New(cfg *config.Config) (*Engine, error) {
	core.LogSetLevel(cfg.LogLevel)
	core.MetricsInitialize()

	fs := vfs.New()
	for _, root := range cfg.Assets.Roots {
		fs.AddRoot(root)
	}
	for _, pak := range cfg.Assets.Paks {
		if err := fs.AddPak(pak); err != nil {
			core.LogError("failed to mount pak %s: %v", pak, err)
			return nil, err
		}
	}

	pipeline, err := assets.NewPipeline(&assets.PipelineConfig{
		Workers:            cfg.Pipeline.Workers,
		Strict:             cfg.Pipeline.Strict,
		FailureJournalSize: cfg.Pipeline.FailureJournalSize,
	}, fs)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(cfg.Pipeline.Workers)
	if err != nil {
		return nil, err
	}
	if err := sched.AddStage(scheduler.StageAssets); err != nil {
		return nil, err
	}

	core.LogInfo("engine %q ready, %d workers", cfg.Name, cfg.Pipeline.Workers)

	return &Engine{
		config:    cfg,
		fs:        fs,
		pipeline:  pipeline,
		scheduler: sched,
	}, nil
}

// Filesystem returns the mounted virtual filesystem.
func (e *Engine) Filesystem() *vfs.Filesystem {
	return e.fs
}

// Pipeline returns the asset pipeline for loader registration.
func (e *Engine) Pipeline() *assets.Pipeline {
	return e.pipeline
}

// Scheduler returns the frame scheduler for step registration.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.scheduler
}

// Frame runs one cooperative frame: every stage, in order.
func (e *Engine) Frame() error {
	return e.scheduler.Tick()
}

// Shutdown stops the scheduler's workers. In-flight frames finish first.
func (e *Engine) Shutdown() error {
	pushed, published, failed := core.MetricsLoads()
	core.LogInfo("shutting down: %d pushed, %d published, %d failed", pushed, published, failed)
	return e.scheduler.Shutdown()
}
