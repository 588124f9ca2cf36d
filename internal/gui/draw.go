package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/particles/internal/dynamo"
)

func vec(v dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

// camera2D mirrors view.Camera: the world is translated by Pos, scaled by
// Zoom and centred in the window.
func (a *App) camera2D() rl.Camera2D {
	return rl.Camera2D{
		Offset: vec(a.Camera.Half()),
		Target: vec(a.Camera.Pos.Neg()),
		Zoom:   float32(a.Camera.Zoom),
	}
}

func (a *App) drawWorld() {
	rl.BeginMode2D(a.camera2D())

	for _, c := range a.World.Chunks() {
		coords, colors := c.Coords(), c.Colors()
		for k := 0; k < c.Len(); k++ {
			pos := rl.NewVector2(coords[2*k], coords[2*k+1])
			rl.DrawPixelV(pos, rl.NewColor(colors[3*k], colors[3*k+1], colors[3*k+2], 255))
		}
	}

	if a.World.WallsEnabled() {
		for _, w := range a.World.Walls() {
			rl.DrawLineV(vec(w.A), vec(w.B), ColWall)
		}
	}

	if a.input.PointerHeld {
		radius := float32(a.World.Config().PointerSoftening)
		p := a.input.Pointer
		rl.DrawCircleLines(int32(p.X), int32(p.Y), radius, rl.NewColor(255, 255, 255, 100))
	}

	rl.EndMode2D()
}
