package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/view"
)

const (
	canvasWidth  = 72
	canvasHeight = 24

	// keyDt is the camera time step applied per zoom or pan key press.
	keyDt = 0.1

	// Speed band edges, in the units of the point color ramp.
	slowSpeed = 85.0
	fastSpeed = 170.0

	historyLen = 120
)

type TickMsg time.Time

// Model is the terminal dashboard: a braille view of the world through a
// camera, a keyboard-driven pointer and live speed statistics.
type Model struct {
	world   *sim.World
	camera  *view.Camera
	clock   *sim.FrameClock
	canvas  *Canvas
	speed   *metrics.Series
	energy  *metrics.KineticEnergy
	fps     int
	pointer dynamo.Vec2 // window pixels
	held    bool
	running bool
	help    bool
}

func NewModel(w *sim.World) Model {
	win := w.Config().Window
	m := Model{
		world:   w,
		camera:  view.NewCamera(win.Width, win.Height),
		clock:   sim.NewFrameClock(w.Config().MinDt),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		speed:   metrics.NewSeries(metrics.NewMeanSpeed(), historyLen),
		energy:  metrics.NewKineticEnergy(),
		fps:     win.FPS,
		pointer: dynamo.Vec2{X: float64(win.Width) / 2, Y: float64(win.Height) / 2},
		running: true,
	}
	if m.fps < 1 {
		m.fps = 60
	}
	w.AddMetric(m.speed)
	w.AddMetric(m.energy)
	return m
}

// Run blocks until the user quits.
func Run(w *sim.World) error {
	_, err := tea.NewProgram(NewModel(w), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Input is the pointer state the next frame will see.
func (m Model) Input() sim.Input {
	return sim.Input{PointerHeld: m.held, Pointer: m.camera.ScreenToWorld(m.pointer)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.held = !m.held
		case "p":
			m.running = !m.running
		case "w":
			m.world.SetWallsEnabled(!m.world.WallsEnabled())
		case "r":
			_ = m.world.Reset()
			m.camera.Reset()
		case "c":
			m.camera.AlignWindow()
		case "?":
			m.help = !m.help
		case "up", "k":
			m.movePointer(0, -1)
		case "down", "j":
			m.movePointer(0, 1)
		case "left", "h":
			m.movePointer(-1, 0)
		case "right", "l":
			m.movePointer(1, 0)
		case "z":
			m.camera.Update(view.Keys{ZoomIn: true}, keyDt)
		case "s":
			m.camera.Update(view.Keys{ZoomOut: true}, keyDt)
		case "shift+left":
			m.camera.Update(view.Keys{Left: true}, keyDt)
		case "shift+right":
			m.camera.Update(view.Keys{Right: true}, keyDt)
		case "shift+up":
			m.camera.Update(view.Keys{Up: true}, keyDt)
		case "shift+down":
			m.camera.Update(view.Keys{Down: true}, keyDt)
		}
	case TickMsg:
		dt := m.clock.Tick()
		if m.running {
			m.world.Step(m.Input(), dt)
		}
		return m, m.tick()
	}
	return m, nil
}

// movePointer shifts the pointer by one canvas cell in window pixels.
func (m *Model) movePointer(dx, dy float64) {
	m.pointer.X += dx * m.camera.Width / canvasWidth
	m.pointer.Y += dy * m.camera.Height / canvasHeight
	m.pointer.X = clamp(m.pointer.X, 0, m.camera.Width)
	m.pointer.Y = clamp(m.pointer.Y, 0, m.camera.Height)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dot maps window pixels to canvas dots.
func (m Model) dot(s dynamo.Vec2) (int, int) {
	x := s.X / m.camera.Width * float64(canvasWidth*2)
	y := s.Y / m.camera.Height * float64(canvasHeight*4)
	return int(x), int(y)
}

func (m Model) draw() {
	m.canvas.Clear()

	for _, c := range m.world.Chunks() {
		coords := c.Coords()
		for k := 0; k < c.Len(); k++ {
			world := dynamo.Vec2{X: float64(coords[2*k]), Y: float64(coords[2*k+1])}
			m.canvas.Set(m.dot(m.camera.WorldToScreen(world)))
		}
	}

	if m.world.WallsEnabled() {
		for _, w := range m.world.Walls() {
			x0, y0 := m.dot(m.camera.WorldToScreen(w.A))
			x1, y1 := m.dot(m.camera.WorldToScreen(w.B))
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}

	px, py := m.dot(m.pointer)
	m.canvas.DrawLine(px-2, py, px+2, py)
	m.canvas.DrawLine(px, py-2, px, py+2)
}

func (m Model) speedBands() (slow, mid, fast float64) {
	for _, p := range m.world.Particles() {
		switch s := p.Speed(); {
		case s < slowSpeed:
			slow++
		case s < fastSpeed:
			mid++
		default:
			fast++
		}
	}
	return slow, mid, fast
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("PARTICLES") + "\n")

	switch {
	case !m.running:
		s.WriteString(statusPaused.Render("PAUSED"))
	case m.held:
		s.WriteString(statusHeld.Render("ATTRACTING"))
	default:
		s.WriteString(statusRunning.Render("RUNNING"))
	}
	s.WriteString("\n\n")

	if vals := m.speed.Values(); len(vals) > 1 {
		chart := asciigraph.Plot(vals, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean speed"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	walls := "off"
	if m.world.WallsEnabled() {
		walls = "on"
	}
	rows := []struct{ label, value string }{
		{"Particles", fmt.Sprintf("%d", m.world.Len())},
		{"Time", fmt.Sprintf("%.2fs", m.world.Time())},
		{"Frame", fmt.Sprintf("%d", m.world.Frame())},
		{"Speed", fmt.Sprintf("%.2f", m.speed.Value())},
		{"Energy", fmt.Sprintf("%.3e", m.energy.Last())},
		{"Zoom", fmt.Sprintf("%.2f", m.camera.Zoom)},
		{"Walls", walls},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}

	slow, mid, fast := m.speedBands()
	s.WriteString("\n" + speedBar(slow, mid, fast, 30) + "\n")

	s.WriteString(helpStyle.Render("SP:Attract P:Pause W:Walls R:Reset\n←↑↓→:Pointer Z/S:Zoom ⇧←↑↓→:Pan\nC:Align ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.help {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space       hold or release the pointer
  Arrows/hjkl move the pointer
  Shift+Arrow pan the camera
  Z / S       zoom in / out
  W           toggle wall collisions
  P           pause
  C           align the camera with the window
  R           reset the grid
  Q           quit
`
