// Package config handles junco.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/juncolang/junco/gc"
)

// Config represents a junco.toml runtime configuration. Loaded files
// are validated against the schema in schema.go before use.
type Config struct {
	Heap      HeapConfig      `toml:"heap" json:"heap"`
	Telemetry TelemetryConfig `toml:"telemetry" json:"telemetry"`
	Snapshot  SnapshotConfig  `toml:"snapshot" json:"snapshot"`

	// Dir is the directory containing the junco.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// HeapConfig tunes the collector.
type HeapConfig struct {
	ThresholdFloor int  `toml:"threshold-floor" json:"threshold-floor"`
	GrowthFactor   int  `toml:"growth-factor" json:"growth-factor"`
	VerboseGC      bool `toml:"verbose-gc" json:"verbose-gc"`
}

// TelemetryConfig configures cycle recording.
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Driver  string `toml:"driver" json:"driver"`
	Path    string `toml:"path" json:"path"`
}

// SnapshotConfig configures heap snapshot output.
type SnapshotConfig struct {
	Dir string `toml:"dir" json:"dir"`
}

const (
	defaultTelemetryPath = "junco-telemetry.db"
	defaultSnapshotDir   = "snapshots"
)

// Default returns the configuration used when no junco.toml exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Heap.ThresholdFloor == 0 {
		c.Heap.ThresholdFloor = gc.DefaultThresholdFloor
	}
	if c.Heap.GrowthFactor == 0 {
		c.Heap.GrowthFactor = gc.DefaultGrowthFactor
	}
	if c.Telemetry.Driver == "" {
		c.Telemetry.Driver = "sqlite"
	}
	if c.Telemetry.Path == "" {
		c.Telemetry.Path = defaultTelemetryPath
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = defaultSnapshotDir
	}
}

// Load parses a junco.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "junco.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	cfg.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &cfg, nil
}

// FindAndLoad walks up from startDir to find a junco.toml file, then
// loads and returns the configuration. Returns nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "junco.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// HeapOptions converts the heap section into collector options.
func (c *Config) HeapOptions() gc.Options {
	return gc.Options{
		ThresholdFloor: c.Heap.ThresholdFloor,
		GrowthFactor:   c.Heap.GrowthFactor,
	}
}

// TelemetryPath returns the telemetry database path, resolved against
// the configuration directory when relative.
func (c *Config) TelemetryPath() string {
	if filepath.IsAbs(c.Telemetry.Path) || c.Dir == "" {
		return c.Telemetry.Path
	}
	return filepath.Join(c.Dir, c.Telemetry.Path)
}

// SnapshotDir returns the snapshot directory, resolved against the
// configuration directory when relative.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) || c.Dir == "" {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir, c.Snapshot.Dir)
}
