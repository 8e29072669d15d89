package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

func moving(speed float64, tag particle.Tag) particle.Particle {
	return particle.MustNew(r2.Vec{X: 10, Y: 10}, r2.Vec{X: speed}, 1, 1, tag)
}

func TestNewHistogram_Invalid(t *testing.T) {
	_, err := NewHistogram(0, 10)
	assert.ErrorIs(t, err, ErrInvalidHistogram)

	_, err = NewHistogram(1, 0)
	assert.ErrorIs(t, err, ErrInvalidHistogram)

	_, err = NewHistogram(math.Inf(1), 3)
	assert.ErrorIs(t, err, ErrInvalidHistogram)
}

func TestHistogram_Bins(t *testing.T) {
	h, err := NewHistogram(0.5, 12)
	require.NoError(t, err)

	assert.Equal(t, 0, h.Bin(0))
	assert.Equal(t, 0, h.Bin(0.49))
	assert.Equal(t, 1, h.Bin(0.5))
	assert.Equal(t, 11, h.Bin(5.9))
	assert.Equal(t, 11, h.Bin(100), "overflow lands in the last bin")
	assert.Equal(t, 0, h.Bin(math.NaN()))
	assert.Equal(t, 11, h.Bin(math.Inf(1)))
	assert.Equal(t, 11, h.Bin(math.MaxFloat64))
	assert.Equal(t, 0, h.Bin(math.Inf(-1)))
	assert.Len(t, h.Edges(), 12)
	assert.InDelta(t, 5.5, h.Edges()[11], 1e-12)
}

func TestHistogram_ObservePerTag(t *testing.T) {
	h, err := NewHistogram(1, 12)
	require.NoError(t, err)

	var ps []particle.Particle
	for i := 0; i < 8; i++ {
		ps = append(ps, moving(2.8, "orange"))
	}
	ps = append(ps, moving(0.2, "green"), moving(30, "green"))

	h.Observe(ps)

	assert.Equal(t, []particle.Tag{"orange", "green"}, h.Tags())
	assert.Equal(t, 8, h.Counts("orange")[2])
	assert.Equal(t, 8, h.Total("orange"))
	assert.Equal(t, 1, h.Counts("green")[0])
	assert.Equal(t, 1, h.Counts("green")[11])
	assert.Equal(t, 8, h.Max())
	assert.Equal(t, make([]int, 12), h.Counts("cyan"))

	h.Observe(ps[:1])
	assert.Equal(t, 1, h.Total("orange"), "Observe replaces earlier counts")
	assert.Equal(t, []particle.Tag{"orange"}, h.Tags())
}

func TestHistogram_AddOverflowedSpeed(t *testing.T) {
	h, err := NewHistogram(0.5, 12)
	require.NoError(t, err)

	assert.NotPanics(t, func() { h.Add("green", math.Inf(1)) })
	assert.Equal(t, 1, h.Counts("green")[11])
}

func TestHistogram_CountsIsCopy(t *testing.T) {
	h, _ := NewHistogram(1, 4)
	h.Add("a", 1.5)
	c := h.Counts("a")
	c[1] = 99
	assert.Equal(t, 1, h.Counts("a")[1])
}

func TestTemperatureAndMeanSpeed(t *testing.T) {
	ps := []particle.Particle{moving(2, "a"), moving(4, "a")}
	// KE = 2 and 8 with unit mass.
	assert.InDelta(t, 5.0, Temperature(ps), 1e-12)
	assert.InDelta(t, 3.0, MeanSpeed(ps), 1e-12)
	assert.Zero(t, Temperature(nil))
	assert.Zero(t, MeanSpeed(nil))
}

func TestMaxwellBoltzmann2D_Normalised(t *testing.T) {
	const mass, kT = 2.0, 3.0
	sum := 0.0
	dv := 1e-3
	for v := 0.0; v < 50; v += dv {
		sum += MaxwellBoltzmann2D(v+dv/2, mass, kT) * dv
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
	assert.Zero(t, MaxwellBoltzmann2D(-1, mass, kT))
	assert.Zero(t, MaxwellBoltzmann2D(1, mass, 0))
}

func TestExpectedCounts_SumsToN(t *testing.T) {
	h, _ := NewHistogram(0.5, 10)
	counts := ExpectedCounts(h, 200, 1, 2)

	total := 0.0
	for _, c := range counts {
		assert.GreaterOrEqual(t, c, 0.0)
		total += c
	}
	assert.InDelta(t, 200, total, 1e-9)
	assert.Equal(t, make([]float64, 10), ExpectedCounts(h, 0, 1, 2))
}
