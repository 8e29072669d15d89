package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/idealgas/internal/arena"
)

// BuildFunc creates a fresh arena for one ensemble member.
type BuildFunc func(seed uint64) (*arena.Arena, error)

// Ensemble runs the same setup under consecutive seeds. Members share
// nothing, so they run concurrently.
type Ensemble struct {
	build     BuildFunc
	metrics   func() []Metric
	numRuns   int
	seedStart uint64
	limit     int
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory for per-member metrics. Metrics hold state,
// so each member gets its own set.
func (e *Ensemble) WithMetrics(f func() []Metric) *Ensemble {
	e.metrics = f
	return e
}

// WithLimit caps how many members run at once. Zero means no cap.
func (e *Ensemble) WithLimit(n int) *Ensemble {
	e.limit = n
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + uint64(idx)
			a, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			s := New(a)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
