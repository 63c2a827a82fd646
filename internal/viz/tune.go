package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 14
	historyCapacity = 300
	traceCapacity   = 4096
	frameRate       = 30
)

// TunedParams are the PID parameters the UI cycles through, in order.
var TunedParams = []string{"kp", "ki", "kd", "setpoint", "max_effort"}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one experiment in real time and retunes its PID from the
// keyboard.
type Model struct {
	exp  *experiment.Experiment
	loop *sim.Loop

	params   []string
	initial  map[string]float64
	selected int

	running  bool
	showHelp bool
	err      error
	theme    int
	style    styles
	canvas   *Canvas

	measurement []float64
	setpoint    []float64
	effort      []float64
}

// NewModel starts the experiment's loop from its initial state. The loop
// never ends, so the experiment's telemetry trace is capped.
func NewModel(exp *experiment.Experiment) (Model, error) {
	exp.Trace().SetLimit(traceCapacity)
	loop, err := exp.Simulator().Start(exp.InitState(), exp.SimConfig())
	if err != nil {
		return Model{}, err
	}
	return Model{
		exp:         exp,
		loop:        loop,
		params:      TunedParams,
		initial:     exp.Feedback().GetParams(),
		running:     true,
		style:       newStyles(Themes[0]),
		canvas:      NewCanvas(canvasWidth, canvasHeight),
		measurement: make([]float64, 0, historyCapacity),
		setpoint:    make([]float64, 0, historyCapacity),
		effort:      make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.selected = (m.selected + 1) % len(m.params)
		case "up", "k":
			m.adjust(1.05)
		case "down", "j":
			m.adjust(0.95)
		case "r":
			m.exp.Feedback().ResetControl()
		case "R":
			m.restart()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.style = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(1.0 / frameRate)
		}
		return m, tick()
	}
	return m, nil
}

// Selected returns the name of the parameter Up/Down will change.
func (m Model) Selected() string { return m.params[m.selected] }

func (m Model) Running() bool { return m.running }

// Err returns the error that stopped the loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) Time() float64 { return m.loop.Time() }

// adjust scales the selected parameter. A zero parameter has no scale to
// work from, so Up seeds it with a small positive value instead.
func (m *Model) adjust(factor float64) {
	name := m.params[m.selected]
	v := m.exp.Feedback().GetParams()[name]
	switch {
	case v != 0:
		v *= factor
	case factor > 1:
		v = 0.01
	default:
		return
	}
	if err := m.exp.Feedback().SetParam(name, v); err != nil {
		m.err = err
	}
}

// advance steps the loop until span seconds of plant time have passed.
func (m *Model) advance(span float64) {
	end := m.loop.Time() + span
	for m.loop.Time() < end-1e-9 {
		s, err := m.loop.Step(m.loop.NextDt())
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.record(s)
	}
}

func (m *Model) record(s dynamo.Sample) {
	push := func(buf []float64, v float64) []float64 {
		if len(buf) == historyCapacity {
			buf = append(buf[:0], buf[1:]...)
		}
		return append(buf, v)
	}
	m.measurement = push(m.measurement, s.Measurement)
	m.setpoint = push(m.setpoint, s.Setpoint)
	m.effort = push(m.effort, s.Effort())
}

// restart begins a new run from the initial state with the current gains.
func (m *Model) restart() {
	m.exp.Feedback().Reset()
	m.exp.Trace().Clear()
	loop, err := m.exp.Simulator().Start(m.exp.InitState(), m.exp.SimConfig())
	if err != nil {
		m.err = err
		return
	}
	m.loop, m.err, m.running = loop, nil, true
	m.measurement = m.measurement[:0]
	m.setpoint = m.setpoint[:0]
	m.effort = m.effort[:0]
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.style.failed.Render("STOPPED: " + m.err.Error())
	case !m.running:
		return m.style.paused.Render("PAUSED")
	case m.exp.PID().AtSetpoint():
		return m.style.settled.Render("AT SETPOINT")
	default:
		return m.style.running.Render("RUNNING")
	}
}

func (m Model) View() string {
	st := m.style
	pid := m.exp.PID()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.exp.PlantInfo().Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.loop.Time()))
	row("Measured", fmt.Sprintf("%.4f", pid.LastMeasurement()))
	row("Error", fmt.Sprintf("%+.4f", pid.LastError()))
	row("Effort", fmt.Sprintf("%+.3f", pid.Output()))
	row("P/I/D", fmt.Sprintf("%+.2f %+.2f %+.2f", pid.PContribution(), pid.IContribution(), pid.DContribution()))
	s.WriteString(st.label.Render("Effort") + st.sparkline(m.effort, 24) + "\n")

	s.WriteString("\nPID\n")
	current := m.exp.Feedback().GetParams()
	for i, name := range m.params {
		line := fmt.Sprintf("%-10s %s %.4g", name, gainBar(current[name], m.initial[name], 10), current[name])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(st.help.Render("Tab:param ↑↓:±5% r:reset PID R:restart\nSpace:pause t:theme ?:help q:quit"))

	drawPlant(m.canvas, m.exp.PlantInfo().Name, m.loop.State(), pid.Setpoint())
	top := lipgloss.JoinHorizontal(lipgloss.Top, st.panel.Render(m.canvas.String()), st.panel.Render(s.String()))

	view := top
	if len(m.measurement) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.measurement, m.setpoint},
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
			asciigraph.Caption("measurement (green) vs setpoint (yellow)"),
		)
		view = lipgloss.JoinVertical(lipgloss.Left, top, st.graph.Render(chart))
	}
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  Tab       next parameter
  Up / k    parameter +5%
  Down / j  parameter -5%
  r         reset PID and filters
  R         restart from the initial state
  Space     pause / resume
  t         cycle theme
  ?         toggle this help
  q         quit
`

// Run opens the tuning UI for exp on the alternate screen.
func Run(exp *experiment.Experiment) error {
	m, err := NewModel(exp)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
