package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/idealgas/internal/particle"
)

var ErrInvalidHistogram = errors.New("analysis: histogram needs positive bin width and bin count")

// Histogram buckets particle speeds per tag. Speeds past the last edge land
// in the last bin.
type Histogram struct {
	binWidth float64
	bins     int
	counts   map[particle.Tag][]int
	order    []particle.Tag
}

func NewHistogram(binWidth float64, bins int) (*Histogram, error) {
	if !(binWidth > 0) || math.IsInf(binWidth, 0) || bins <= 0 {
		return nil, fmt.Errorf("%w: width=%v bins=%d", ErrInvalidHistogram, binWidth, bins)
	}
	return &Histogram{
		binWidth: binWidth,
		bins:     bins,
		counts:   make(map[particle.Tag][]int),
	}, nil
}

func (h *Histogram) BinWidth() float64 { return h.binWidth }
func (h *Histogram) Bins() int         { return h.bins }

// Bin returns the bucket index for a speed. Anything at or past the last
// edge, +Inf included, lands in the last bin.
func (h *Histogram) Bin(speed float64) int {
	if speed <= 0 || math.IsNaN(speed) {
		return 0
	}
	f := speed / h.binWidth
	if math.IsInf(f, 1) || f >= float64(h.bins) {
		return h.bins - 1
	}
	return int(f)
}

// Edges returns the lower edge of every bin.
func (h *Histogram) Edges() []float64 {
	edges := make([]float64, h.bins)
	for i := range edges {
		edges[i] = float64(i) * h.binWidth
	}
	return edges
}

func (h *Histogram) Add(tag particle.Tag, speed float64) {
	c, ok := h.counts[tag]
	if !ok {
		c = make([]int, h.bins)
		h.counts[tag] = c
		h.order = append(h.order, tag)
	}
	c[h.Bin(speed)]++
}

// Observe replaces the current counts with a snapshot of ps.
func (h *Histogram) Observe(ps []particle.Particle) {
	h.Reset()
	for _, p := range ps {
		h.Add(p.Tag(), p.Speed())
	}
}

// Counts returns a copy of the bucket counts for tag, all zero if unseen.
func (h *Histogram) Counts(tag particle.Tag) []int {
	out := make([]int, h.bins)
	copy(out, h.counts[tag])
	return out
}

// Tags lists observed tags in order of first appearance.
func (h *Histogram) Tags() []particle.Tag {
	return append([]particle.Tag(nil), h.order...)
}

// Total is the number of observations for tag.
func (h *Histogram) Total(tag particle.Tag) int {
	n := 0
	for _, c := range h.counts[tag] {
		n += c
	}
	return n
}

// Max is the largest single bucket across all tags.
func (h *Histogram) Max() int {
	m := 0
	for _, c := range h.counts {
		for _, v := range c {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func (h *Histogram) Reset() {
	h.counts = make(map[particle.Tag][]int)
	h.order = h.order[:0]
}
