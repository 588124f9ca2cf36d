package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/physics"
)

// Input is the per-frame snapshot consumed from the input boundary.
type Input struct {
	PointerHeld bool
	Pointer     dynamo.Vec2
}

// InputSource supplies the input for a frame during headless runs.
type InputSource interface {
	Input(frame int, t float64) Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(frame int, t float64) Input

func (f InputFunc) Input(frame int, t float64) Input { return f(frame, t) }

// NoInput never holds the pointer.
var NoInput = InputFunc(func(int, float64) Input { return Input{} })

type Metric interface {
	Name() string
	Observe(particles []physics.Particle, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame, once chunks are filled.
type Observer interface {
	OnFrame(w *World)
}

type RunConfig struct {
	Frames        int
	Dt            float64
	ValidateState bool
}

type Result struct {
	Frames  int
	SimTime float64
	Elapsed time.Duration
	Metrics map[string]float64
}

// FramesPerSecond is the wall-clock frame rate achieved by the run.
func (r *Result) FramesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

type SimError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
