package physics

import "github.com/san-kum/particles/internal/dynamo"

const (
	DefaultPointerScale     = 500000.0
	DefaultPointerSoftening = 10.0
)

// PointerAttraction pulls particles toward a pointer while its primary
// button is held.
type PointerAttraction struct {
	Scale     float64
	Softening float64
}

// Force returns (pointer - at) * scale*held / (|pointer - at| + softening)^2.
// When held is false the result is the zero vector at any distance.
func (pa PointerAttraction) Force(at, pointer dynamo.Vec2, held bool) dynamo.Vec2 {
	if !held {
		return dynamo.Vec2{}
	}
	d := pointer.Sub(at)
	r := d.Norm() + pa.Softening
	if r == 0 {
		return dynamo.Vec2{}
	}
	return d.Scale(pa.Scale / (r * r))
}

// Drag is a linear damping force -velocity * coefficient.
func Drag(velocity dynamo.Vec2, coefficient float64) dynamo.Vec2 {
	return velocity.Scale(-coefficient)
}

// Gravity is a constant downward (screen +y) force of the given magnitude.
func Gravity(g float64) dynamo.Vec2 {
	return dynamo.Vec2{Y: g}
}
