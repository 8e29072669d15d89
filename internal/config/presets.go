package config

import "sort"

func square(length, margin float64) ArenaConfig {
	return ArenaConfig{Width: length, Height: length, Margin: margin}
}

var defaultHistogram = HistogramConfig{BinWidth: DefaultBinWidth, Bins: DefaultBins}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"mixture": {
		Arena: square(DefaultArenaLength, DefaultMargin),
		Species: []SpeciesConfig{
			{Tag: "green", Mass: 5, Radius: 10, VX: 4, VY: 4, Count: 30},
			{Tag: "orange", Mass: 10, Radius: 15, VX: -2, VY: 3, Count: 20},
			{Tag: "cyan", Mass: 1, Radius: 5, VX: 6, VY: -6, Count: 40},
		},
		Seed: 1, Frames: 2000, Histogram: defaultHistogram,
	},
	"dense": {
		Arena: square(DefaultArenaLength, DefaultMargin),
		Species: []SpeciesConfig{
			{Tag: "green", Mass: 5, Radius: 10, VX: 3, VY: 3, Count: 500},
		},
		Seed: 1, Frames: 1000, Parallel: 64, Histogram: defaultHistogram,
	},
	"sparse": {
		Arena: square(DefaultArenaLength, DefaultMargin),
		Species: []SpeciesConfig{
			{Tag: "green", Mass: 5, Radius: 10, VX: 4, VY: 4, Count: 10},
		},
		Seed: 1, Frames: 3000, Histogram: defaultHistogram,
	},
	"heavy-light": {
		Arena: square(DefaultArenaLength, DefaultMargin),
		Species: []SpeciesConfig{
			{Tag: "orange", Mass: 50, Radius: 20, VX: 0, VY: 0, Count: 10},
			{Tag: "cyan", Mass: 1, Radius: 5, VX: 5, VY: 5, Count: 80},
		},
		Seed: 1, Frames: 2000, Histogram: HistogramConfig{BinWidth: 1, Bins: 12},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
