package export

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/particle"
	"github.com/san-kum/idealgas/internal/viz"
)

func TestArenaToSVG(t *testing.T) {
	ps := []particle.Particle{
		particle.MustNew(r2.Vec{X: 100, Y: 50}, r2.Vec{}, 1, 10, "green"),
		particle.MustNew(r2.Vec{X: 20, Y: 30}, r2.Vec{}, 1, 5, "orange"),
	}
	svg := ArenaToSVG(engine.Bounds{Width: 200, Height: 100, Margin: 10}, ps, 400)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if !strings.Contains(svg, `width="400" height="200"`) {
		t.Error("svg should keep the arena aspect ratio")
	}
	if !strings.Contains(svg, `<rect x="20.0" y="20.0" width="360.0" height="160.0"`) {
		t.Error("walls should be drawn inside the margin")
	}
	if !strings.Contains(svg, `<circle cx="200.0" cy="100.0" r="20.0" fill="`+string(viz.TagColor("green"))+`"/>`) {
		t.Error("particles should be scaled and colored by tag")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Error("expected one circle per particle")
	}

	if ArenaToSVG(engine.Bounds{}, ps, 400) != "" {
		t.Error("degenerate bounds should render nothing")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("a single point is not a line")
	}

	svg := SeriesToSVG([]float64{1, 2, 3}, 100, 50, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color should be applied")
	}
	if strings.Count(svg, " L") != 2 {
		t.Error("expected two line segments")
	}
	if !strings.Contains(svg, "M0.0,") || !strings.Contains(svg, "L100.0,") {
		t.Error("series should span the full width")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas renders nothing")
	}
	c := viz.NewCanvas(2, 1)
	c.SetColor(0, 0, "#123456")
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 dots, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, `fill="#123456"`) {
		t.Error("tinted dots keep their color")
	}
}
