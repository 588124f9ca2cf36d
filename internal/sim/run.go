package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/particles/internal/integrators"
)

// Run steps the world rc.Frames times with a fixed dt, pulling input from
// src. It stops early when ctx is done and returns the partial result
// together with ctx.Err().
func (w *World) Run(ctx context.Context, rc RunConfig, src InputSource) (*Result, error) {
	if err := validateRunConfig(rc); err != nil {
		return nil, err
	}
	if src == nil {
		src = NoInput
	}

	for _, m := range w.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	start := time.Now()
	startTime := w.time

	defer func() {
		result.Elapsed = time.Since(start)
		result.SimTime = w.time - startTime
		for _, m := range w.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for i := 0; i < rc.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		w.Step(src.Input(w.frame, w.time), rc.Dt)
		result.Frames++

		if rc.ValidateState {
			if err := w.CheckState(); err != nil {
				return result, &SimError{Frame: w.frame, Time: w.time, Wrapped: err}
			}
		}
	}

	return result, nil
}

func validateRunConfig(rc RunConfig) error {
	if rc.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", rc.Frames)
	}
	if !(rc.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", rc.Dt)
	}
	return nil
}

// FrameClock measures the real time between frames. The first Tick has no
// previous frame and returns the floor; every result is at least the floor.
type FrameClock struct {
	floor   float64
	last    time.Time
	started bool
	now     func() time.Time
}

func NewFrameClock(floor float64) *FrameClock {
	if !(floor > 0) {
		floor = integrators.MinDt
	}
	return &FrameClock{floor: floor, now: time.Now}
}

// Tick returns the seconds elapsed since the previous Tick.
func (c *FrameClock) Tick() float64 {
	now := c.now()
	if !c.started {
		c.started = true
		c.last = now
		return c.floor
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return integrators.ClampDt(dt, c.floor)
}
