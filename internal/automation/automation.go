package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/config"
	"github.com/san-kum/idealgas/internal/experiment"
	"github.com/san-kum/idealgas/internal/sim"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. It starts from a preset or a config file
// (preset wins when both are set) and applies the non-zero overrides.
type ScenarioStep struct {
	Preset     string  `yaml:"preset"`
	Config     string  `yaml:"config"`
	Seed       uint64  `yaml:"seed"`
	Frames     int     `yaml:"frames"`
	SpeedScale float64 `yaml:"speed_scale"`
	SaveAs     string  `yaml:"save_as"`
}

// StepResult pairs a step's resolved configuration with its outcome.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

func (s ScenarioStep) resolve() (*config.Config, string, error) {
	var cfg *config.Config
	name := s.Preset
	switch {
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s", s.Preset)
		}
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, "", err
		}
		cfg, name = loaded, config.NameFromPath(s.Config)
	default:
		cfg, name = config.DefaultConfig(), "default"
	}

	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Frames != 0 {
		cfg.Frames = s.Frames
	}
	if s.SpeedScale != 0 {
		for i := range cfg.Species {
			cfg.Species[i].VX *= s.SpeedScale
			cfg.Species[i].VY *= s.SpeedScale
		}
	}
	if s.SaveAs != "" {
		name = s.SaveAs
	}
	return cfg, name, cfg.Validate()
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log logr.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, name, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", name)

		exp := experiment.New(cfg, log)
		if err := exp.Setup(registry.DefaultMetrics(experiment.Bounds(cfg))); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// Sweepable parameter names. Species parameters apply to every species.
const (
	ParamSpeed  = "speed"
	ParamMass   = "mass"
	ParamRadius = "radius"
	ParamCount  = "count"
	ParamMargin = "margin"
)

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue    float64
	Particles     int
	Temperature   float64
	MeanSpeed     float64
	CollisionRate float64
	EnergyDrift   float64
}

// ApplyParam sets one sweepable parameter on cfg.
func ApplyParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case ParamSpeed:
		for i := range cfg.Species {
			s := &cfg.Species[i]
			norm := math.Hypot(s.VX, s.VY)
			if norm == 0 {
				s.VX, s.VY = value, 0
				continue
			}
			s.VX, s.VY = s.VX/norm*value, s.VY/norm*value
		}
	case ParamMass:
		for i := range cfg.Species {
			cfg.Species[i].Mass = value
		}
	case ParamRadius:
		for i := range cfg.Species {
			cfg.Species[i].Radius = value
		}
	case ParamCount:
		for i := range cfg.Species {
			cfg.Species[i].Count = int(value)
		}
	case ParamMargin:
		cfg.Arena.Margin = value
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// Values lists the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	values := make([]float64, s.NumSteps)
	for i := range values {
		values[i] = s.ParamMin + float64(i)*step
	}
	return values
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log logr.Logger) ([]SweepResult, error) {
	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := ApplyParam(cfg, sweep.ParamName, v); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, log)
		if err := exp.Setup(nil); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		rate := 0.0
		if result.Frames > 0 {
			rate = float64(result.Collisions) / float64(result.Frames)
		}
		results = append(results, SweepResult{
			ParamValue:    v,
			Particles:     len(result.Final),
			Temperature:   analysis.Temperature(result.Final),
			MeanSpeed:     analysis.MeanSpeed(result.Final),
			CollisionRate: rate,
			EnergyDrift:   result.EnergyDrift,
		})

		log.V(1).Info("sweep point done", "step", i+1, "of", len(values), sweep.ParamName, v)
	}

	return results, nil
}
