package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"go.uber.org/zap"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailLength     = 60
)

type TickMsg time.Time

type point struct{ x, y int }

// Model drives a simulator from Bubble Tea ticks. Every tick advances the
// run by StepsPerTick steps and then reads positions back once.
type Model struct {
	cfg          *config.Config
	log          *zap.Logger
	sim          *sim.Simulator
	energy       *metrics.EnergyDrift
	hits         *collision.Recorder
	StepsPerTick int

	labels []string
	kinds  []body.Kind
	radii  []float64

	canvas    *Canvas
	view      Viewport
	positions []body.Vec2
	trails    [][]point

	energyHistory []float64
	running       bool
	err           error
}

func NewModel(cfg *config.Config, log *zap.Logger) (Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		cfg:          cfg,
		log:          log,
		StepsPerTick: 1,
		canvas:       NewCanvas(width, height),
		running:      true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	field, err := gravity.New(m.cfg.G, m.cfg.Softening)
	if err != nil {
		return err
	}
	hits := &collision.Recorder{}
	s, err := m.cfg.NewSimulator(sim.WithLogger(m.log), sim.WithSink(hits))
	if err != nil {
		return err
	}
	energy := metrics.NewEnergyDrift(field)
	s.AddMetric(energy)

	snap := s.Snapshot()
	views := snap.Views()
	m.labels = make([]string, 0, len(views))
	m.kinds = make([]body.Kind, 0, len(views))
	m.radii = make([]float64, 0, len(views))
	maxR := 0.0
	for _, v := range views {
		m.labels = append(m.labels, v.Label())
		m.kinds = append(m.kinds, v.Ref.Kind)
		m.radii = append(m.radii, v.Radius)
		if v.Radius > maxR {
			maxR = v.Radius
		}
	}

	m.sim = s
	m.energy = energy
	m.hits = hits
	m.err = nil
	m.energyHistory = make([]float64, 0, historyCapacity)
	m.positions = s.Positions()
	m.trails = make([][]point, len(m.positions))

	w, h := m.canvas.Dots()
	m.view = Fit(m.positions, maxR+0.5*spread(m.positions), w, h)
	return nil
}

func spread(ps []body.Vec2) float64 {
	r := 0.0
	for _, p := range ps {
		if l := p.Len(); l > r {
			r = l
		}
	}
	return r
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
			m.running = m.err == nil
		case "+", "=":
			m.view = m.view.Zoom(1.25)
		case "-", "_":
			m.view = m.view.Zoom(0.8)
		}
	case TickMsg:
		if m.running {
			m.advance(m.StepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the run and takes the single read-back for this frame.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			m.log.Warn("live run stopped", zap.Error(err))
			break
		}
	}
	m.positions = m.sim.Positions()

	m.energyHistory = append(m.energyHistory, m.energy.Current())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	w, h := m.canvas.Dots()
	for i, p := range m.positions {
		if m.kinds[i] == body.Static {
			continue
		}
		x, y := m.view.Project(p, w, h)
		m.trails[i] = append(m.trails[i], point{x, y})
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	for _, trail := range m.trails {
		for _, pt := range trail {
			m.canvas.Set(pt.x, pt.y)
		}
	}
	for i, p := range m.positions {
		x, y := m.view.Project(p, w, h)
		m.canvas.DrawCircle(x, y, int(m.radii[i]*m.view.Scale))
		if m.kinds[i] != body.Static {
			m.canvas.Set(x, y)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(GraphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(Row("Time", fmt.Sprintf("%.2fs", m.sim.Time())) + "\n")
	s.WriteString(Row("Steps", fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	s.WriteString(Row("Drift", fmt.Sprintf("%.2e", m.energy.Value())) + "\n")
	s.WriteString(Row("Collisions", fmt.Sprintf("%d", m.hits.Len())) + "\n")
	if events := m.hits.Events(); len(events) > 0 {
		last := events[len(events)-1]
		s.WriteString(Row("Last", fmt.Sprintf("%s @ %.2fs", last.Pair(), last.Time)) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, l := range m.labels {
		if i >= len(m.positions) {
			break
		}
		s.WriteString(Subtle.Render(fmt.Sprintf("%-8s %-7s %s", l, m.kinds[i], m.positions[i])) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause N:Step R:Restart\n+/-:Zoom Q:Quit"))

	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String()))
}

// Simulator exposes the driven simulator.
func (m Model) Simulator() *sim.Simulator {
	return m.sim
}

// Positions is the read-back from the last frame.
func (m Model) Positions() []body.Vec2 {
	return m.positions
}

func (m Model) Err() error {
	return m.err
}
