package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	"github.com/san-kum/idealgas/internal/config"
)

func TestBuild(t *testing.T) {
	cfg := config.GetPreset("mixture")

	a, err := Build(cfg, logr.Discard())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if a.Len() != cfg.TotalCount() {
		t.Errorf("expected %d particles, got %d", cfg.TotalCount(), a.Len())
	}
	tags := a.Tags()
	if len(tags) != 3 || tags[0] != "green" || tags[1] != "orange" || tags[2] != "cyan" {
		t.Errorf("unexpected tags %v", tags)
	}
	if a.Seed() != cfg.Seed {
		t.Errorf("expected seed %d, got %d", cfg.Seed, a.Seed())
	}
}

func TestBuildCapsToCapacity(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.Margin = 100, 100, 0
	cfg.Species[0].Count = 1000

	a, err := Build(cfg, logr.Discard())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// (100 / 20)^2
	if a.Len() != 25 {
		t.Errorf("expected 25 particles, got %d", a.Len())
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Species[0].Mass = -1
	if _, err := Build(cfg, logr.Discard()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("sparse")
	cfg.Frames = 50

	e := New(cfg, logr.Discard())
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}

	reg := NewRegistry()
	if err := e.Setup(reg.DefaultMetrics(Bounds(cfg))); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Frames != 50 {
		t.Errorf("expected 50 frames, got %d", result.Frames)
	}
	if result.Metrics["containment"] != 1 {
		t.Errorf("expected full containment, got %v", result.Metrics["containment"])
	}
	if result.EnergyDrift > 1e-9 {
		t.Errorf("energy drift too large: %g", result.EnergyDrift)
	}
	if e.GetSimulator().Arena().Frame() != 50 {
		t.Errorf("arena should be at frame 50")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	b := Bounds(config.DefaultConfig())

	names := reg.ListMetrics()
	if len(names) != 5 {
		t.Fatalf("expected 5 metrics, got %v", names)
	}
	for _, name := range names {
		m, err := reg.GetMetric(name, b)
		if err != nil {
			t.Errorf("metric %s: %v", name, err)
			continue
		}
		if m.Name() != name {
			t.Errorf("metric %s reports name %s", name, m.Name())
		}
	}

	if _, err := reg.GetMetric("nope", b); err == nil {
		t.Error("expected error for unknown metric")
	}

	ms, err := reg.Metrics([]string{"energy", "mean_speed"}, b)
	if err != nil || len(ms) != 2 {
		t.Errorf("expected 2 metrics, got %d (%v)", len(ms), err)
	}
	ms, _ = reg.Metrics(nil, b)
	if len(ms) != 5 {
		t.Errorf("expected default metrics, got %d", len(ms))
	}
}
