package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/halosim/internal/config"
	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/experiment"
	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/history"
)

const (
	tickRate     = time.Second / 20
	heatmapWidth = 60
	trendWidth   = 36
)

type fieldView int

const (
	viewFrozen fieldView = iota
	viewUnfrozen
	viewSource
)

func (v fieldView) String() string {
	return [...]string{"frozen", "unfrozen", "source"}[v]
}

type TickMsg time.Time

// LiveModel steps a simulation built from a config once per tick and keeps
// its snapshots for replay. Stepping pauses after cfg.Steps steps; 0 means
// run until quit.
type LiveModel struct {
	cfg      *config.Config
	sim      *halo.Simulation
	running  bool
	playHead int
	view     fieldView
	logScale bool
	showHelp bool
	trend    []float64
	err      error
}

func NewLiveModel(cfg *config.Config) (LiveModel, error) {
	m := LiveModel{cfg: cfg, running: true, playHead: -1}
	if err := m.reset(); err != nil {
		return LiveModel{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "f":
			m.view = (m.view + 1) % 3
		case "l":
			m.logScale = !m.logScale
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= m.sim.History().Len() {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the simulation once unless the configured step count is
// reached.
func (m *LiveModel) step() {
	if m.cfg.Steps > 0 && m.sim.Steps() >= m.cfg.Steps {
		m.running = false
		return
	}
	if err := m.sim.Step(m.cfg.Dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.trend = append(m.trend, m.sim.Frozen().Sum())
	if len(m.trend) > trendWidth {
		m.trend = m.trend[1:]
	}
}

// scrub moves the replay position. Moving past the newest snapshot returns
// to live stepping.
func (m *LiveModel) scrub(dir int) {
	n := m.sim.History().Len()
	if m.playHead == -1 {
		if n == 0 {
			return
		}
		m.playHead = n - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= n {
		m.playHead = -1
	}
}

// reset rebuilds the simulation from the config, re-applying every
// injection.
func (m *LiveModel) reset() error {
	exp := experiment.New(m.cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	m.sim = exp.Simulation()
	m.playHead = -1
	m.trend = m.trend[:0]
	m.err = nil
	return nil
}

// frame returns the snapshot on display: the replay position, or the live
// state.
func (m LiveModel) frame() history.Snapshot {
	if m.playHead >= 0 {
		if s, ok := m.sim.History().At(m.playHead); ok {
			return s
		}
	}
	return history.Capture(m.sim.Steps(), m.sim.Time(), m.sim.Unfrozen(), m.sim.Frozen())
}

func (m LiveModel) displayed(s history.Snapshot) field.Field {
	switch m.view {
	case viewUnfrozen:
		return s.Unfrozen
	case viewSource:
		return m.sim.Source()
	default:
		return s.Frozen
	}
}

func (m LiveModel) View() string {
	snap := m.frame()

	left := headerStyle.Render(fmt.Sprintf("%s density", strings.ToUpper(m.view.String()))) + "\n" +
		panelStyle.Render(Heatmap(m.displayed(snap), HeatmapOptions{Width: heatmapWidth, Log: m.logScale}))

	var s strings.Builder
	s.WriteString(headerStyle.Render("HALO FORMATION") + "\n")
	s.WriteString(m.status(snap) + "\n\n")

	source := m.sim.Source().Sum()
	s.WriteString(row("Time", fmt.Sprintf("%.0f", snap.Time)))
	s.WriteString(row("Step", fmt.Sprintf("%d", snap.Step)))
	if m.cfg.Steps > 0 {
		done := float64(snap.Step) / float64(m.cfg.Steps)
		s.WriteString(row("Progress", ProgressBar(done, 16)+fmt.Sprintf(" %.0f%%", 100*done)))
	}
	s.WriteString(row("Frozen", fmt.Sprintf("%.3e", snap.TotalFrozen)))
	s.WriteString(row("Unfrozen", fmt.Sprintf("%.3e", snap.TotalUnfrozen)))
	s.WriteString(row("Source", fmt.Sprintf("%.3e", source)))
	s.WriteString(row("Frozen frac", fmt.Sprintf("%.3e", diagnostics.FrozenFraction(snap.TotalFrozen, source))))

	grid := m.sim.Grid()
	opts := m.cfg.DiagnosticOptions(grid)
	curve := diagnostics.Rotation(grid, snap.Frozen.Plus(m.sim.Source()), m.sim.Params().G, opts...)
	vmax, rmax := curve.MaxVelocity()
	s.WriteString(row("Vmax", fmt.Sprintf("%.1f @ %.1f", vmax, rmax)))
	s.WriteString(row("Punctures", fmt.Sprintf("%d", len(m.sim.Punctures()))))

	if len(m.trend) > 1 {
		s.WriteString("\n" + labelStyle.Render("Frozen trend") + Sparkline(m.trend, trendWidth-14) + "\n")
	}

	profile := diagnostics.RadialProfile(grid, snap.Frozen, opts...)
	if profile.Peak() > 0 {
		chart := asciigraph.Plot(profile.Density, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Profile"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	overlay := NewCanvas(18, 9)
	overlay.PlotField(snap.Frozen, 0.5)
	overlay.MarkPunctures(grid, m.sim.Punctures())
	s.WriteString(overlay.String())

	if m.err != nil {
		s.WriteString("\n" + SparkLow.Render("error: "+m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nF:Field L:Log T:Theme\n[ ]:Time-Travel ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m LiveModel) status(snap history.Snapshot) string {
	switch {
	case m.playHead >= 0 && m.running:
		return StatusReplay.Render(fmt.Sprintf("REPLAYING (%.0f)", snap.Time-m.sim.Time()))
	case m.playHead >= 0:
		return StatusReplay.Render(fmt.Sprintf("REPLAY PAUSED (%.0f)", snap.Time-m.sim.Time()))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func formatRange(lo, hi float64) string {
	return fmt.Sprintf("r = %.2g..%.3g", lo, hi)
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume stepping    ║
║  R        - Reset to injections      ║
║  Q        - Quit                     ║
║  F        - Cycle displayed field    ║
║  L        - Toggle log shading       ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive starts the live view on the alternate screen.
func RunLive(cfg *config.Config) error {
	m, err := NewLiveModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
