package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// PipelineConfig controls the asset pipeline.
type PipelineConfig struct {
	// Number of workers the scheduler uses for independent steps and for
	// the load calls inside one drain. Defaults to GOMAXPROCS.
	Workers int `toml:"workers"`
	// Strict makes invariant violations (duplicate publish) fatal instead
	// of logged and ignored. Turn on in development builds.
	Strict bool `toml:"strict"`
	// Capacity of the recent-failure journal.
	FailureJournalSize int `toml:"failure_journal_size"`
}

// AssetsConfig describes where the virtual filesystem pulls bytes from.
type AssetsConfig struct {
	// Directory roots, in priority order. First added wins on conflicts.
	Roots []string `toml:"roots"`
	// Pak archives mounted after the directory roots.
	Paks []string `toml:"paks"`
}

type Config struct {
	Name     string         `toml:"name"`
	LogLevel string         `toml:"log_level"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Assets   AssetsConfig   `toml:"assets"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Name:     "vesper",
		LogLevel: "info",
		Pipeline: PipelineConfig{
			Workers:            runtime.GOMAXPROCS(0),
			FailureJournalSize: 64,
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
	}
}

// Read decodes a TOML configuration on top of the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration file at path. A missing file is not an
// error; the defaults are returned instead.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func (c *Config) validate() error {
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("config: pipeline.workers must be > 0, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.FailureJournalSize <= 0 {
		return fmt.Errorf("config: pipeline.failure_journal_size must be > 0, got %d", c.Pipeline.FailureJournalSize)
	}
	if len(c.Assets.Roots) == 0 && len(c.Assets.Paks) == 0 {
		return fmt.Errorf("config: at least one asset root or pak archive is required")
	}
	return nil
}
