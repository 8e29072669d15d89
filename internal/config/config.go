package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultArenaLength = 750.0
	DefaultMargin      = 75.0
	DefaultMass        = 5.0
	DefaultRadius      = 10.0
	DefaultSpeed       = 4.0
	DefaultCount       = 60
	DefaultFrames      = 1000
	DefaultSeed        = 1
	DefaultBinWidth    = 0.5
	DefaultBins        = 12
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Species   []SpeciesConfig `yaml:"species"`
	Seed      uint64          `yaml:"seed"`
	Frames    int             `yaml:"frames"`
	Parallel  int             `yaml:"parallel"`
	Histogram HistogramConfig `yaml:"histogram"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"`
}

// SpeciesConfig describes one batch of identical particles. Every particle
// of a species starts with the same velocity at a random position.
type SpeciesConfig struct {
	Tag    string  `yaml:"tag"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Count  int     `yaml:"count"`
}

type HistogramConfig struct {
	BinWidth float64 `yaml:"bin_width"`
	Bins     int     `yaml:"bins"`
}

func DefaultConfig() *Config {
	return &Config{
		Arena: ArenaConfig{
			Width:  DefaultArenaLength,
			Height: DefaultArenaLength,
			Margin: DefaultMargin,
		},
		Species: []SpeciesConfig{
			{Tag: "green", Mass: DefaultMass, Radius: DefaultRadius, VX: DefaultSpeed, VY: DefaultSpeed, Count: DefaultCount},
		},
		Seed:   DefaultSeed,
		Frames: DefaultFrames,
		Histogram: HistogramConfig{
			BinWidth: DefaultBinWidth,
			Bins:     DefaultBins,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NameFromPath derives a run name from a config file path: the base name
// without its extension.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets can be tweaked by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = append([]SpeciesConfig(nil), c.Species...)
	return &out
}

// Validate rejects anything the arena would refuse later, so a bad file
// fails before any particle is generated.
func (c *Config) Validate() error {
	a := c.Arena
	if !positive(a.Width) || !positive(a.Height) {
		return fmt.Errorf("%w: arena size %vx%v must be positive", ErrInvalidConfig, a.Width, a.Height)
	}
	if a.Margin < 0 || !finite(a.Margin) {
		return fmt.Errorf("%w: margin %v must be non-negative", ErrInvalidConfig, a.Margin)
	}
	if len(c.Species) == 0 {
		return fmt.Errorf("%w: no species", ErrInvalidConfig)
	}
	for i, s := range c.Species {
		if s.Tag == "" {
			return fmt.Errorf("%w: species %d has no tag", ErrInvalidConfig, i)
		}
		if !positive(s.Mass) {
			return fmt.Errorf("%w: species %q mass %v must be positive", ErrInvalidConfig, s.Tag, s.Mass)
		}
		if !positive(s.Radius) {
			return fmt.Errorf("%w: species %q radius %v must be positive", ErrInvalidConfig, s.Tag, s.Radius)
		}
		if !finite(s.VX) || !finite(s.VY) {
			return fmt.Errorf("%w: species %q velocity must be finite", ErrInvalidConfig, s.Tag)
		}
		if s.Count < 0 {
			return fmt.Errorf("%w: species %q count %d is negative", ErrInvalidConfig, s.Tag, s.Count)
		}
		inner := 2*a.Margin + 2*s.Radius
		if inner >= a.Width || inner >= a.Height {
			return fmt.Errorf("%w: species %q does not fit: 2*margin+2*radius = %v", ErrInvalidConfig, s.Tag, inner)
		}
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames %d must be positive", ErrInvalidConfig, c.Frames)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("%w: parallel chunk %d is negative", ErrInvalidConfig, c.Parallel)
	}
	if !positive(c.Histogram.BinWidth) || c.Histogram.Bins <= 0 {
		return fmt.Errorf("%w: histogram needs positive bin width and bin count", ErrInvalidConfig)
	}
	return nil
}

// TotalCount is the number of particles requested across all species,
// before any capacity capping.
func (c *Config) TotalCount() int {
	n := 0
	for _, s := range c.Species {
		n += s.Count
	}
	return n
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
func finite(v float64) bool   { return !math.IsNaN(v) && !math.IsInf(v, 0) }
