package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/arena"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// SpeedUpFactor and SlowDownFactor scale every velocity on the up and
	// down keys.
	SpeedUpFactor  = 1.1
	SlowDownFactor = 0.9
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(50)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// BuildFunc creates the arena shown by the live view. It is called again on
// reset, so it must be repeatable.
type BuildFunc func() (*arena.Arena, error)

// Model contains simulation state, visualization buffers, and UI context.
type Model struct {
	title         string
	build         BuildFunc
	arena         *arena.Arena
	hist          *analysis.Histogram
	canvas        *Canvas
	width, height int
	running       bool
	showHelp      bool
	theme         Theme
	stepsPerTick  int
	lastHits      int
	totalHits     int
	energyHistory []float64
	speedHistory  []float64
	recording     bool
	frames        []*image.Paletted
	err           error
}

// NewModel builds the first arena and wires the histogram used for the
// speed panel.
func NewModel(title string, build BuildFunc, hist *analysis.Histogram) (Model, error) {
	a, err := build()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		title:         title,
		build:         build,
		arena:         a,
		hist:          hist,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		theme:         CurrentTheme,
		stepsPerTick:  1,
		energyHistory: make([]float64, 0, historyCapacity),
		speedHistory:  make([]float64, 0, historyCapacity),
	}
	m.hist.Observe(a.Particles())
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Arena exposes the arena currently on screen.
func (m Model) Arena() *arena.Arena { return m.arena }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n", "right":
			if !m.running {
				m.step()
			}
		case "up", "k":
			m.scale(SpeedUpFactor)
		case "down", "j":
			m.scale(SlowDownFactor)
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, 64)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "g":
			if m.recording {
				m.saveGIF()
				m.frames = nil
			}
			m.recording = !m.recording
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(20, min(msg.Width-56, 160))
		m.height = max(8, min(msg.Height-4, 60))
		m.canvas = NewCanvas(m.width, m.height)
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick; i++ {
				m.step()
			}
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the arena one frame and records the series shown in the
// side panel.
func (m *Model) step() {
	m.lastHits = m.arena.AdvanceOneFrame()
	m.totalHits += m.lastHits
	m.observe()
}

func (m *Model) observe() {
	ps := m.arena.Particles()
	m.hist.Observe(ps)

	m.energyHistory = append(m.energyHistory, m.arena.KineticEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.speedHistory = append(m.speedHistory, analysis.MeanSpeed(ps))
	if len(m.speedHistory) > historyCapacity {
		m.speedHistory = m.speedHistory[1:]
	}
}

func (m *Model) scale(factor float64) {
	if err := m.arena.ScaleSpeeds(factor); err != nil {
		m.err = err
		return
	}
	m.hist.Observe(m.arena.Particles())
}

// reset rebuilds the arena from scratch.
func (m *Model) reset() {
	a, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.arena = a
	m.err = nil
	m.lastHits, m.totalHits = 0, 0
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.hist.Observe(a.Particles())
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme.Primary))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + StatusRecording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	ps := m.arena.Particles()
	row("Frame", fmt.Sprintf("%d", m.arena.Frame()))
	row("Particles", fmt.Sprintf("%d", len(ps)))
	row("Energy", fmt.Sprintf("%.2f", m.arena.KineticEnergy()))
	row("kT", fmt.Sprintf("%.3f", analysis.Temperature(ps)))
	row("Collisions", fmt.Sprintf("%d (%d total)", m.lastHits, m.totalHits))
	row("Steps/tick", fmt.Sprintf("%d", m.stepsPerTick))
	s.WriteString(MetricLabel.Render("Mean speed") + SparklineChart(m.speedHistory, 30) + "\n\n")

	s.WriteString(m.legend() + "\n")
	s.WriteString(HistogramBars(m.hist, 24))

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit ↑↓:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single frame (paused)    ║
║  R        - Reset arena              ║
║  Q        - Quit                     ║
║  Up/K     - Speed up particles       ║
║  Down/J   - Slow down particles      ║
║  + / -    - Frames per tick          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) legend() string {
	parts := make([]string, 0)
	for _, tag := range m.arena.Tags() {
		swatch := lipgloss.NewStyle().Foreground(TagColor(tag)).Render("●")
		parts = append(parts, fmt.Sprintf("%s %s", swatch, tag))
	}
	return strings.Join(parts, "  ")
}

// projection maps arena coordinates onto canvas sub-pixels, keeping the
// aspect ratio.
type projection struct {
	scale float64
}

func (m *Model) project() projection {
	b := m.arena.Bounds()
	sx := float64(m.canvas.PixelWidth()-1) / b.Width
	sy := float64(m.canvas.PixelHeight()-1) / b.Height
	return projection{scale: math.Min(sx, sy)}
}

func (p projection) point(x, y float64) (int, int) {
	return int(math.Round(x * p.scale)), int(math.Round(y * p.scale))
}

// draw renders the walls and every particle.
func (m *Model) draw() {
	m.canvas.Clear()
	p := m.project()
	b := m.arena.Bounds()

	x0, y0 := p.point(b.Margin, b.Margin)
	x1, y1 := p.point(b.Width-b.Margin, b.Height-b.Margin)
	m.canvas.DrawRect(x0, y0, x1, y1)

	for _, pt := range m.arena.Particles() {
		pos := pt.Position()
		cx, cy := p.point(pos.X, pos.Y)
		r := int(math.Round(pt.Radius() * p.scale))
		m.canvas.DrawCircle(cx, cy, r, TagColor(pt.Tag()))
	}
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < m.canvas.PixelHeight(); y++ {
		for x := 0; x < m.canvas.PixelWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create("idealgas.gif")
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}
