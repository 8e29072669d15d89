package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/config"
	"github.com/san-kum/idealgas/internal/particle"
	"github.com/san-kum/idealgas/internal/sim"
)

// ErrInvalidName indicates a run name that is empty or would not map to a
// single directory under the store.
var ErrInvalidName = errors.New("storage: invalid run name")

const (
	metadataFile  = "metadata.json"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Timestamp   time.Time              `json:"timestamp"`
	Seed        uint64                 `json:"seed"`
	Frames      int                    `json:"frames"`
	Particles   int                    `json:"particles"`
	Collisions  int                    `json:"collisions"`
	EnergyDrift float64                `json:"energy_drift"`
	Arena       config.ArenaConfig     `json:"arena"`
	Species     []config.SpeciesConfig `json:"species"`
	Metrics     map[string]float64     `json:"metrics"`
}

// Save writes one run directory holding the metadata, the per-frame series
// and the final particle state, and returns its ID.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   now,
		Seed:        cfg.Seed,
		Frames:      result.Frames,
		Particles:   len(result.Final),
		Collisions:  result.Collisions,
		EnergyDrift: result.EnergyDrift,
		Arena:       cfg.Arena,
		Species:     cfg.Species,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result.Series); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result.Final); err != nil {
		return "", err
	}

	return runID, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// seriesNames puts the standard series first, then anything else sorted.
func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for _, n := range []string{sim.SeriesKineticEnergy, sim.SeriesMeanSpeed, sim.SeriesCollisions} {
		if _, ok := series[n]; ok {
			names = append(names, n)
		}
	}
	extra := make([]string, 0)
	for n := range series {
		switch n {
		case sim.SeriesKineticEnergy, sim.SeriesMeanSpeed, sim.SeriesCollisions:
		default:
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// writeCSV creates path, runs encode and reports the first of the encode,
// flush and close errors.
func writeCSV(path string, encode func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSeries(path string, series map[string][]float64) error {
	return writeCSV(path, func(w *csv.Writer) error { return encodeSeries(w, series) })
}

func encodeSeries(w *csv.Writer, series map[string][]float64) error {
	names := seriesNames(series)
	if err := w.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}

	rows := 0
	for _, n := range names {
		rows = max(rows, len(series[n]))
	}
	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i + 1)}
		for _, n := range names {
			val := "0"
			if i < len(series[n]) {
				val = strconv.FormatFloat(series[n][i], 'f', 6, 64)
			}
			row = append(row, val)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeParticles(path string, ps []particle.Particle) error {
	return writeCSV(path, func(w *csv.Writer) error { return encodeParticles(w, ps) })
}

func encodeParticles(w *csv.Writer, ps []particle.Particle) error {
	if err := w.Write([]string{"tag", "x", "y", "vx", "vy", "mass", "radius"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range ps {
		pos, vel := p.Position(), p.Velocity()
		row := []string{
			string(p.Tag()),
			format(pos.X), format(pos.Y),
			format(vel.X), format(vel.Y),
			format(p.Mass()), format(p.Radius()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadSeries returns the per-frame series of a run keyed by column name.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return series, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}
	return series, nil
}

// LoadParticles restores the final particle state of a run.
func (s *Store) LoadParticles(runID string) ([]particle.Particle, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []particle.Particle{}, nil
	}

	ps := make([]particle.Particle, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 7 {
			return nil, fmt.Errorf("%s line %d: expected 7 fields, got %d", particlesFile, i+2, len(record))
		}
		vals := make([]float64, 6)
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", particlesFile, i+2, err)
			}
			vals[j] = v
		}
		p, err := particle.New(r2.Vec{X: vals[0], Y: vals[1]}, r2.Vec{X: vals[2], Y: vals[3]}, vals[4], vals[5], particle.Tag(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", particlesFile, i+2, err)
		}
		ps = append(ps, p)
	}
	return ps, nil
}
