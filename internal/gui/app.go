package gui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/view"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWall    = rl.NewColor(70, 70, 70, 255)
)

// telemetryLen is the number of frames shown in the speed graph.
const telemetryLen = 200

// App is the interactive window around a World: raylib polling feeds
// sim.Input and the camera, chunk buffers are drawn as points.
type App struct {
	World   *sim.World
	Camera  *view.Camera
	Clock   *sim.FrameClock
	Running bool

	speed  *metrics.Series
	width  int32
	height int32
	log    logrus.FieldLogger
	input  sim.Input
}

func initWindow(width, height, fps int) error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(width), int32(height), "particles")
	if !rl.IsWindowReady() {
		return errors.New("gui: window could not be created")
	}
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
	return nil
}

func NewApp(w *sim.World, log logrus.FieldLogger) *App {
	win := w.Config().Window
	app := &App{
		World:   w,
		Camera:  view.NewCamera(win.Width, win.Height),
		Clock:   sim.NewFrameClock(w.Config().MinDt),
		Running: true,
		speed:   metrics.NewSeries(metrics.NewMeanSpeed(), telemetryLen),
		width:   int32(win.Width),
		height:  int32(win.Height),
		log:     log,
	}
	w.AddMetric(app.speed)
	return app
}

// Run opens the window and blocks until it is closed.
func Run(w *sim.World, log logrus.FieldLogger) error {
	win := w.Config().Window
	if err := initWindow(win.Width, win.Height, win.FPS); err != nil {
		return err
	}
	defer rl.CloseWindow()

	log.WithFields(logrus.Fields{
		"width":  win.Width,
		"height": win.Height,
		"fps":    win.FPS,
	}).Info("window opened")

	app := NewApp(w, log)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func pollKeys() view.Keys {
	return view.Keys{
		ZoomIn:  rl.IsKeyDown(rl.KeyZ),
		ZoomOut: rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyLeft),
		Right:   rl.IsKeyDown(rl.KeyRight),
		Up:      rl.IsKeyDown(rl.KeyUp),
		Down:    rl.IsKeyDown(rl.KeyDown),
	}
}

// Update runs one frame: measure dt, move the camera, map the mouse into
// the world and step the simulation.
func (a *App) Update() {
	dt := a.Clock.Tick()

	a.Camera.Update(pollKeys(), dt)

	mouse := rl.GetMousePosition()
	a.input = sim.Input{
		PointerHeld: rl.IsMouseButtonDown(rl.MouseLeftButton),
		Pointer:     a.Camera.ScreenToWorld(dynamo.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}),
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyW) {
		a.World.SetWallsEnabled(!a.World.WallsEnabled())
		a.log.WithField("walls", a.World.WallsEnabled()).Info("wall collisions toggled")
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Camera.AlignWindow()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.World.Reset(); err != nil {
			a.log.WithError(err).Error("reset failed")
		}
		a.Camera.Reset()
	}

	if a.Running {
		a.World.Step(a.input, dt)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawWorld()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("particles", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %d", a.World.Len()), 160, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	rl.DrawText(status, a.width-130, 30, 16, col)

	walls := "OFF"
	if a.World.WallsEnabled() {
		walls = "ON"
	}
	rl.DrawText(fmt.Sprintf("zoom %.2f  walls %s  t %.2fs", a.Camera.Zoom, walls, a.World.Time()),
		30, 60, 14, ColText)

	a.DrawTelemetry()

	rl.DrawText("[LMB] ATTRACT  [Z/S] ZOOM  [ARROWS] PAN  [W] WALLS  [C] ALIGN  [SPACE] PAUSE  [R] RESET  [Q] QUIT",
		a.width-860, a.height-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, a.height-40, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	values := a.speed.Values()
	if len(values) < 2 {
		return
	}

	rectX, rectY := int32(30), a.height-130
	width, height := int32(400), int32(60)

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(values))
	for i, val := range values {
		px := float32(rectX) + (float32(i)/float32(len(values)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("v: %.1f", values[len(values)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
