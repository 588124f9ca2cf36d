// Package view holds the camera that maps between window pixels and world
// coordinates. It has no rendering dependency; gui and tui both drive it.
package view

import (
	"github.com/san-kum/particles/internal/dynamo"
)

const (
	// PanSpeed is the pan rate in screen pixels per second.
	PanSpeed = 500.0
	// MinZoom keeps the zoom factor positive under long frames.
	MinZoom = 1e-3
)

// Keys is the camera-relevant keyboard state of one frame.
type Keys struct {
	ZoomIn, ZoomOut bool
	Left, Right     bool
	Up, Down        bool
}

// Camera places the world origin at the window centre, scaled by Zoom and
// shifted by Pos (in world units).
type Camera struct {
	Zoom   float64
	Pos    dynamo.Vec2
	Width  float64
	Height float64
}

func NewCamera(width, height int) *Camera {
	return &Camera{Zoom: 1, Width: float64(width), Height: float64(height)}
}

// Update applies one frame of key input. Zoom changes exponentially at a
// rate of 1/s; panning is PanSpeed screen pixels per second at any zoom.
// Opposing keys resolve to the first of each pair.
func (c *Camera) Update(k Keys, dt float64) {
	switch {
	case k.ZoomIn:
		c.Zoom += dt * c.Zoom
	case k.ZoomOut:
		c.Zoom -= dt * c.Zoom
	}
	if c.Zoom < MinZoom {
		c.Zoom = MinZoom
	}

	step := PanSpeed * dt / c.Zoom
	switch {
	case k.Left:
		c.Pos.X += step
	case k.Right:
		c.Pos.X -= step
	}
	switch {
	case k.Up:
		c.Pos.Y += step
	case k.Down:
		c.Pos.Y -= step
	}
}

func (c *Camera) Half() dynamo.Vec2 {
	return dynamo.Vec2{X: c.Width / 2, Y: c.Height / 2}
}

func (c *Camera) ScreenToWorld(s dynamo.Vec2) dynamo.Vec2 {
	return s.Sub(c.Half()).Scale(1 / c.Zoom).Sub(c.Pos)
}

func (c *Camera) WorldToScreen(w dynamo.Vec2) dynamo.Vec2 {
	return w.Add(c.Pos).Scale(c.Zoom).Add(c.Half())
}

// Visible returns the world rectangle covered by the window as
// (min, max) corners.
func (c *Camera) Visible() (min, max dynamo.Vec2) {
	return c.ScreenToWorld(dynamo.Vec2{}), c.ScreenToWorld(dynamo.Vec2{X: c.Width, Y: c.Height})
}

// AlignWindow makes world coordinates coincide with window pixels, which
// frames the default wall rectangle.
func (c *Camera) AlignWindow() {
	c.Zoom = 1
	c.Pos = c.Half().Neg()
}

func (c *Camera) Reset() {
	c.Zoom = 1
	c.Pos = dynamo.Vec2{}
}
