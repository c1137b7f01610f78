package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

const (
	defaultCols     = 96
	defaultRows     = 32
	statsWidth      = 44
	historyCapacity = 240
)

type TickMsg time.Time

// Options wires the live view to the rest of the program.
type Options struct {
	// Build returns a freshly populated system. Called at start and on reset.
	Build func() (*particles.System, error)
	// Snapshot saves the current frame and returns where it went. Optional.
	Snapshot func(ps []particles.Particle) (string, error)
	Cols     int
	Rows     int
}

type tunable struct {
	name     string
	value    func(f *particles.Forces) *float64
	min, max float64
	nudge    float64 // starting value when raised from zero
}

var tunables = []tunable{
	{"time step", func(f *particles.Forces) *float64 { return &f.TimeStep }, 1, 1000, 1},
	{"neighborhood", func(f *particles.Forces) *float64 { return &f.Neighborhood }, 1, 256, 1},
	{"repulsion", func(f *particles.Forces) *float64 { return &f.Repulsion }, 0, 1, 0.01},
	{"attraction", func(f *particles.Forces) *float64 { return &f.CenterAttraction }, 0, 0.1, 0.001},
	{"damping", func(f *particles.Forces) *float64 { return &f.Damping }, 0, 0.1, 0.001},
}

// Model is the bubbletea model of the live particle view.
type Model struct {
	cfg      *config.Config
	opts     Options
	sys      *particles.System
	forces   particles.Forces
	normalTS float64
	view     Viewport
	canvas   *Canvas
	theme    Theme

	running    bool
	slowMotion bool
	drawBalls  bool
	showHelp   bool
	selected   int

	lastTick time.Time
	frame    int
	fps      float64
	stats    particles.StepStats
	energy   []float64
	status   string
	err      error
}

func NewModel(cfg *config.Config, opts Options) (Model, error) {
	if opts.Cols <= 0 {
		opts.Cols = defaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	m := Model{
		cfg:     cfg,
		opts:    opts,
		forces:  cfg.Forces.Particles(),
		view:    VisibleViewport(cfg.Domain),
		canvas:  NewCanvas(opts.Cols, opts.Rows),
		theme:   GetTheme(cfg.Render.Theme),
		running: true,
		energy:  make([]float64, 0, historyCapacity),
	}
	m.normalTS = m.forces.TimeStep
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	fps := m.cfg.Render.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the system once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.toggleSlowMotion()
		case "b":
			m.drawBalls = !m.drawBalls
		case "p":
			m.snapshot()
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.adjust(1.05)
		case "down", "j":
			m.adjust(0.95)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			elapsed := 1 / float64(max(m.cfg.Render.FPS, 1))
			if !m.lastTick.IsZero() {
				elapsed = now.Sub(m.lastTick).Seconds()
			}
			m.step(elapsed)
		}
		m.lastTick = now
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(elapsed float64) {
	m.stats = m.sys.Step(m.forces, elapsed)
	m.frame++
	if elapsed > 0 {
		m.fps = 0.9*m.fps + 0.1/elapsed
	}

	s := sim.Measure(m.sys, m.frame, 0, m.stats)
	m.energy = append(m.energy, s.KineticEnergy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) toggleSlowMotion() {
	m.slowMotion = !m.slowMotion
	if m.slowMotion {
		m.normalTS = m.forces.TimeStep
		m.forces.TimeStep = m.cfg.Run.SlowTimeStep
	} else {
		m.forces.TimeStep = m.normalTS
	}
}

func (m *Model) adjust(factor float64) {
	t := tunables[m.selected]
	v := t.value(&m.forces)
	next := *v * factor
	if *v == 0 && factor > 1 {
		next = t.nudge
	}
	*v = math.Max(t.min, math.Min(t.max, next))
}

// handleMouse drives the pointer push: pressing activates it at the
// cursor, dragging moves it, releasing deactivates it.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.forces.Pointer.Active = true
	case tea.MouseActionRelease:
		m.forces.Pointer.Active = false
		return
	case tea.MouseActionMotion:
		if !m.forces.Pointer.Active {
			return
		}
	}
	// canvas is drawn with one row and two columns of padding
	x, y := m.view.FromCell(m.canvas, msg.X-2, msg.Y-1)
	m.forces.Pointer.X, m.forces.Pointer.Y = x, y
}

func (m *Model) resize(w, h int) {
	cols, rows := w-statsWidth-6, h-2
	if cols < 16 || rows < 8 {
		return
	}
	m.canvas = NewCanvas(cols, rows)
}

func (m *Model) snapshot() {
	if m.opts.Snapshot == nil {
		m.status = "snapshots disabled"
		return
	}
	path, err := m.opts.Snapshot(m.sys.Particles())
	if err != nil {
		m.err = err
		return
	}
	m.status = "saved " + path
}

// reset rebuilds the population and restores the configured forces.
func (m *Model) reset() error {
	sys, err := m.opts.Build()
	if err != nil {
		return err
	}
	m.sys = sys
	m.forces = m.cfg.Forces.Particles()
	m.normalTS = m.forces.TimeStep
	m.slowMotion = false
	m.frame = 0
	m.fps = 0
	m.stats = particles.StepStats{}
	m.energy = m.energy[:0]
	m.lastTick = time.Time{}
	m.err = nil
	return nil
}

// Forces returns the tunables that will be used for the next frame.
func (m Model) Forces() particles.Forces { return m.forces }

func (m Model) System() *particles.System { return m.sys }

func (m Model) draw() string {
	m.canvas.Clear()
	DrawParticles(m.canvas, m.sys.Particles(), m.view, m.cfg.Render, m.drawBalls,
		m.forces.Neighborhood*m.cfg.Render.BallScale)
	if p := m.forces.Pointer; p.Active {
		dw, _ := m.canvas.Dots()
		x, y := m.view.ToDots(m.canvas, p.X, p.Y)
		m.canvas.DrawCircle(x, y, int(p.Radius/m.view.W*float64(dw)), 255)
	}
	return m.canvas.Render(m.theme.ParticleColor(m.cfg.Render.Color), m.theme)
}

// View renders the canvas and the stats panel side by side.
func (m Model) View() string {
	t := m.theme
	header := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(t.Muted).Width(14)
	value := lipgloss.NewStyle().Foreground(t.Text)
	active := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warning)
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Muted).
		Padding(1, 2).
		Width(statsWidth)

	var s strings.Builder
	s.WriteString(header.Render("BINNED PARTICLES") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.slowMotion {
		status += " / SLOW"
	}
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(t.Chart).Render(chart) + "\n\n")
	}

	row := func(k, v string) { s.WriteString(label.Render(k) + value.Render(v) + "\n") }
	row("particles", fmt.Sprintf("%d", m.sys.Len()))
	row("fps", fmt.Sprintf("%.0f", m.fps))
	row("frame", fmt.Sprintf("%d", m.frame))
	row("neighbours", fmt.Sprintf("%d / %d", m.stats.Repulsion.Hits, m.stats.Repulsion.Candidates))
	row("bounces", fmt.Sprintf("%d", m.stats.Bounces))
	if m.forces.Pointer.Active {
		row("pointer", fmt.Sprintf("%.0f,%.0f (%d)", m.forces.Pointer.X, m.forces.Pointer.Y, m.stats.Pointer.Hits))
	}

	s.WriteString("\nFORCES\n")
	for i, tu := range tunables {
		line := fmt.Sprintf("%-12s %.4g", tu.name, *tu.value(&m.forces))
		if i == m.selected {
			s.WriteString(active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + label.Width(0).Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + warn.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		s.WriteString("\n" + value.Render(m.status) + "\n")
	}

	help := "SP:Pause S:Slow B:Balls P:Snap\nR:Reset T:Theme ?:Help Q:Quit\nTab/↑↓:Tune  Mouse:Push"
	if m.showHelp {
		help = strings.Join([]string{
			"Space     pause / resume",
			"S         slow motion",
			"B         draw neighbourhood balls",
			"P         save an SVG snapshot",
			"R         repopulate",
			"Tab       select force",
			"Up/K      raise by 5%",
			"Down/J    lower by 5%",
			"T         next theme",
			"Mouse     push particles away",
			"Q         quit",
		}, "\n")
	}
	s.WriteString(lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1).Render(help))

	canvas := lipgloss.NewStyle().Padding(1, 2).Render(m.draw())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, panel.Render(s.String()))
}
