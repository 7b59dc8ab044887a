package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gaslab/internal/gas"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

const (
	widthStep    = 8.0
	pumpStep     = 10
	lidHalfWidth = 40.0
)

type Model struct {
	sim  *gas.Sim
	snap *gas.Snapshot

	paused bool
	speed  float64
	heat   float64

	// resizeTicks keeps the wall velocity alive for a few frames after a
	// width keypress so approaching particles pick up the momentum kick.
	resizeTicks int
	wallSpeed   float64

	tempHistory  []float64
	pressHistory []float64

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func NewModel(cfg gas.Config) (*Model, error) {
	s, err := gas.New(cfg)
	if err != nil {
		return nil, err
	}
	m := &Model{
		sim:          s,
		speed:        1.0,
		tempHistory:  make([]float64, 0, 120),
		pressHistory: make([]float64, 0, 120),
		width:        80,
		height:       24,
	}
	m.snap = s.Snapshot()
	return m, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now

			steps := int(m.speed)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				if err := m.sim.Step(0.2); err != nil {
					return m, tea.Quit
				}
			}
			m.snap = m.sim.Snapshot()
			m.record()
		}
		if m.resizeTicks > 0 {
			m.resizeTicks--
			if m.resizeTicks == 0 {
				m.sim.EndResize()
				m.wallSpeed = 0
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) record() {
	if m.snap.TemperatureOK {
		m.tempHistory = append(m.tempHistory, m.snap.Temperature)
		if len(m.tempHistory) > 120 {
			m.tempHistory = m.tempHistory[1:]
		}
	}
	if m.snap.Pressure > 0 {
		m.pressHistory = append(m.pressHistory, m.snap.Pressure)
		if len(m.pressHistory) > 120 {
			m.pressHistory = m.pressHistory[1:]
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0

	case "H":
		m.sim.SetTarget(gas.Heavy, m.sim.System.Target(gas.Heavy)+pumpStep)
	case "h":
		m.sim.SetTarget(gas.Heavy, max(0, m.sim.System.Target(gas.Heavy)-pumpStep))
	case "L":
		m.sim.SetTarget(gas.Light, m.sim.System.Target(gas.Light)+pumpStep)
	case "l":
		m.sim.SetTarget(gas.Light, max(0, m.sim.System.Target(gas.Light)-pumpStep))

	case "left":
		m.resize(-widthStep)
	case "right":
		m.resize(widthStep)

	case "w":
		m.toggleHeat(1)
	case "s":
		m.toggleHeat(-1)

	case "m":
		m.sim.SetHoldMode((m.sim.HoldMode() + 1) % 5)
	case "d":
		if m.sim.Container.HasDivider() {
			m.sim.Container.RemoveDivider()
		} else {
			m.sim.Container.SetDivider(m.sim.Container.Bounds().Center().X)
		}
	case "o":
		if m.sim.Container.LidOpen() {
			m.sim.Container.SetLidOpening(0)
		} else {
			m.sim.Container.SetLidOpening(lidHalfWidth)
		}
	case "c":
		m.sim.SetCollisionsEnabled(!m.sim.System.CollisionsEnabled)
	}
	return m, nil
}

// resize narrows or widens the container. Positive delta grows the width,
// moving the left wall away from the gas.
func (m *Model) resize(delta float64) {
	old := m.sim.Container.Width()
	applied := m.sim.RequestWidth(old + delta)
	if applied == old {
		return
	}
	// The left wall moves in -x when the container grows.
	m.wallSpeed = -(applied - old)
	m.sim.SetWallSpeed(m.wallSpeed)
	m.resizeTicks = 3
}

func (m *Model) toggleHeat(dir float64) {
	if m.heat == dir {
		m.heat = 0
	} else {
		m.heat = dir
	}
	m.sim.SetHeatCool(m.heat)
}

func (m *Model) View() string {
	cw := m.width - 6
	ch := m.height - 12
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	m.drawChamber(canvas, cw, ch)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	heatStr := dim.Render("idle")
	if m.heat > 0 {
		heatStr = red.Render("heating")
	} else if m.heat < 0 {
		heatStr = blue.Render("cooling")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s  %s\n",
		statusIcon, cyan.Render("gaslab"), statusText, heatStr,
		dim.Render(fmt.Sprintf("hold:%s  %.0ffps", m.sim.HoldMode(), m.fps))))

	tempStr := "T=--"
	if m.snap.TemperatureOK {
		tempStr = fmt.Sprintf("T=%.0fK", m.snap.Temperature)
	}
	b.WriteString(fmt.Sprintf("   %s  %s  %s  %s\n\n",
		white.Render(tempStr),
		white.Render(fmt.Sprintf("P=%.0fkPa", m.snap.Pressure)),
		green.Render(fmt.Sprintf("heavy:%d", m.snap.HeavyCount)),
		blue.Render(fmt.Sprintf("light:%d", m.snap.LightCount))))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	if m.snap.HasDivider {
		b.WriteString(fmt.Sprintf("\n   %s n=%d T=%.0fK   %s n=%d T=%.0fK\n",
			dim.Render("left:"), m.snap.Left.Count, m.snap.Left.Temperature,
			dim.Render("right:"), m.snap.Right.Count, m.snap.Right.Temperature))
	}

	if len(m.tempHistory) > 1 {
		b.WriteString(fmt.Sprintf("\n   %s %s", dim.Render("T"), cyan.Render(sparkline(m.tempHistory, 32))))
	}
	if len(m.pressHistory) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s", dim.Render("P"), yellow.Render(sparkline(m.pressHistory, 32))))
	}
	b.WriteString("\n")

	b.WriteString("\n" + dim.Render("   H/h L/l pump  ←→ wall  w/s heat  m hold  d divider  o lid  c collisions  space pause  q quit") + "\n")

	return b.String()
}

// drawChamber maps the model box onto the char canvas. The canvas always
// covers the maximum extent so the movable wall is seen to travel.
func (m *Model) drawChamber(canvas [][]rune, cw, ch int) {
	maxb := m.sim.Container.MaxBounds()
	scaleX := float64(cw-2) / maxb.Width()
	scaleY := float64(ch-2) / maxb.Height()

	toCol := func(x float64) int { return 1 + int((x-maxb.Min.X)*scaleX) }
	toRow := func(y float64) int { return ch - 2 - int((y-maxb.Min.Y)*scaleY) }

	b := m.snap.Bounds
	left, right := toCol(b.Min.X), toCol(b.Max.X)
	top, bottom := toRow(b.Max.Y), toRow(b.Min.Y)

	for row := top; row <= bottom; row++ {
		set(canvas, left, row, '│', cw, ch)
		set(canvas, right, row, '│', cw, ch)
	}
	for col := left; col <= right; col++ {
		set(canvas, col, bottom, '─', cw, ch)
		set(canvas, col, top, '─', cw, ch)
	}
	set(canvas, left, top, '┌', cw, ch)
	set(canvas, right, top, '┐', cw, ch)
	set(canvas, left, bottom, '└', cw, ch)
	set(canvas, right, bottom, '┘', cw, ch)

	if m.snap.LidHalfWidth > 0 {
		center := (b.Min.X + b.Max.X) / 2
		for col := toCol(center - m.snap.LidHalfWidth); col <= toCol(center+m.snap.LidHalfWidth); col++ {
			set(canvas, col, top, ' ', cw, ch)
		}
	}

	if m.snap.HasDivider {
		col := toCol(m.snap.DividerX)
		for row := top + 1; row < bottom; row++ {
			set(canvas, col, row, '┊', cw, ch)
		}
	}

	for _, p := range m.snap.Particles {
		c := '●'
		if p.Species == gas.Light.Name {
			c = '·'
		}
		if !p.Inside {
			c = '˟'
		}
		set(canvas, toCol(p.Position.X), toRow(p.Position.Y), c, cw, ch)
	}
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Run starts the interactive chamber view and blocks until quit.
func Run(cfg gas.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
