package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/idealgas/internal/config"
)

// resolveConfig layers the run configuration: defaults, then preset, then
// config file, then any flag the user set explicitly. It returns the
// configuration and a short name for the run.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg, name = p, preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = config.NameFromPath(configFile)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("width") {
		cfg.Arena.Width = arenaWidth
	}
	if changed("height") {
		cfg.Arena.Height = arenaHeight
	}
	if changed("margin") {
		cfg.Arena.Margin = margin
	}
	for i := range cfg.Species {
		s := &cfg.Species[i]
		if changed("count") {
			s.Count = count
		}
		if changed("mass") {
			s.Mass = mass
		}
		if changed("radius") {
			s.Radius = radius
		}
		if changed("vx") {
			s.VX = vx
		}
		if changed("vy") {
			s.VY = vy
		}
	}
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("frames") {
		cfg.Frames = frames
	}
	if changed("parallel") {
		cfg.Parallel = parallel
	}
	if changed("bin-width") {
		cfg.Histogram.BinWidth = binWidth
	}
	if changed("bins") {
		cfg.Histogram.Bins = bins
	}
}
