package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/arena"
	"github.com/san-kum/idealgas/internal/config"
	"github.com/san-kum/idealgas/internal/experiment"
)

var presetInfo = map[string]string{
	"default":     "60 green particles",
	"mixture":     "three species",
	"dense":       "near capacity",
	"sparse":      "few, fast collisions",
	"heavy-light": "brownian motion",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// paramNames are the editable fields; species fields apply to every
// species of the chosen preset.
var paramNames = []string{"seed", "count", "speed", "mass", "radius"}

type model struct {
	state, cursor int
	presets       []string
	selected      string
	params        map[string]float64
	paramCursor   int
	editing       bool
	editBuf       string
	liveModel     Model
	err           error
	log           logr.Logger
}

func NewInteractiveApp(log logr.Logger) *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		params:  make(map[string]float64),
		log:     log,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state, m.paramCursor = stateConfig, 0
		m.loadParams()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.params[paramNames[m.paramCursor]] = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.err = nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.params[paramNames[m.paramCursor]])
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	}
	return m, nil
}

func (m *model) nudge(dir float64) {
	name := paramNames[m.paramCursor]
	step := 1.0
	if name == "count" {
		step = 5
	}
	m.params[name] = max(m.params[name]+dir*step, 0)
}

// loadParams seeds the editor from the preset. Species fields show the
// first species; edits scale or replace them for all species.
func (m *model) loadParams() {
	cfg := config.GetPreset(m.selected)
	first := cfg.Species[0]
	m.params["seed"] = float64(cfg.Seed)
	m.params["count"] = float64(cfg.TotalCount())
	m.params["speed"] = 1
	m.params["mass"] = first.Mass
	m.params["radius"] = first.Radius
}

// configFor applies the edited parameters to a copy of the preset.
func (m *model) configFor() *config.Config {
	cfg := config.GetPreset(m.selected)
	first := cfg.Species[0]
	cfg.Seed = uint64(m.params["seed"])

	total := cfg.TotalCount()
	for i := range cfg.Species {
		s := &cfg.Species[i]
		if total > 0 {
			s.Count = int(float64(s.Count) * m.params["count"] / float64(total))
		}
		s.VX *= m.params["speed"]
		s.VY *= m.params["speed"]
		if first.Mass > 0 {
			s.Mass *= m.params["mass"] / first.Mass
		}
		if first.Radius > 0 {
			s.Radius *= m.params["radius"] / first.Radius
		}
	}
	return cfg
}

func (m *model) start() tea.Cmd {
	cfg := m.configFor()
	if err := cfg.Validate(); err != nil {
		m.err = err
		return nil
	}
	hist, err := analysis.NewHistogram(cfg.Histogram.BinWidth, cfg.Histogram.Bins)
	if err != nil {
		m.err = err
		return nil
	}
	build := func() (*arena.Arena, error) { return experiment.Build(cfg, m.log) }
	live, err := NewModel(m.selected, build, hist)
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = live
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("IDEALGAS") + "\n    " + menuSub.Render("2d ideal gas lab") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-14s", name)), menuValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-14s", name)), menuDim.Render(desc)))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuInactive.Render(" navigate  ") + menuKey.Render("enter") + menuInactive.Render(" select  ") + menuKey.Render("q") + menuInactive.Render(" quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range paramNames {
		valStr := fmt.Sprintf("%8.2f", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-10s", name)), menuDim.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuInactive.Render(" select  ") + menuKey.Render("h/l") + menuInactive.Render(" adjust  ") + menuKey.Render("s") + menuInactive.Render(" start  ") + menuKey.Render("esc") + menuInactive.Render(" back") + "\n")
	return b.String()
}

func RunInteractive(log logr.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(log), tea.WithAltScreen()).Run()
	return err
}

// RunLive opens the live view directly on one arena setup.
func RunLive(title string, build BuildFunc, hist *analysis.Histogram) error {
	m, err := NewModel(title, build, hist)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
