package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/idealgas/internal/particle"
)

type ParticleRecord struct {
	Tag    string  `json:"tag"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

type ExportData struct {
	Run       RunMetadata          `json:"run"`
	Series    map[string][]float64 `json:"series"`
	Particles []ParticleRecord     `json:"particles"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, series map[string][]float64, ps []particle.Particle) error {
	data := ExportData{
		Run:       *meta,
		Series:    series,
		Particles: make([]ParticleRecord, len(ps)),
	}

	for i, p := range ps {
		pos, vel := p.Position(), p.Velocity()
		data.Particles[i] = ParticleRecord{
			Tag: string(p.Tag()), X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y,
			Mass: p.Mass(), Radius: p.Radius(),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Export writes a stored run as a single JSON document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	ps, err := s.LoadParticles(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, meta, series, ps)
}
