package physics

import "github.com/san-kum/particles/internal/dynamo"

// Wall is a line segment particles may bounce off.
type Wall struct {
	A, B dynamo.Vec2
}

// Normal returns the unit normal of the segment, (-d.y, d.x)/|d| for d = B-A.
func (w Wall) Normal() dynamo.Vec2 {
	return w.B.Sub(w.A).Perp().Normalize()
}

// Crossed reports whether the straight path prev -> next reached the segment
// this frame. Ending exactly on the segment counts as a crossing; starting on
// its line does not, so a particle put back at prev is never caught again.
func (w Wall) Crossed(prev, next dynamo.Vec2) bool {
	d := w.B.Sub(w.A)
	sp := d.Cross(w.B.Sub(prev))
	if sp == 0 || d.Cross(w.B.Sub(next))*sp > 0 {
		return false
	}
	path := next.Sub(prev)
	return path.Cross(w.A.Sub(prev))*path.Cross(w.B.Sub(prev)) <= 0
}

// Reflect puts p back at prev and bounces its velocity off the wall:
// v' = v + j*n with j = -(1+restitution)*(v.n).
func (w Wall) Reflect(p *Particle, prev dynamo.Vec2, restitution float64) {
	n := w.Normal()
	p.SetPosition(prev)
	v := p.Velocity()
	j := -(1 + restitution) * v.Dot(n)
	p.SetVelocity(v.Add(n.Scale(j)))
}

// Collide reflects p off the first wall its last move crossed. It returns
// false when no wall was crossed.
func Collide(walls []Wall, p *Particle, prev dynamo.Vec2, restitution float64) bool {
	next := p.Position()
	for _, w := range walls {
		if w.Crossed(prev, next) {
			w.Reflect(p, prev, restitution)
			return true
		}
	}
	return false
}

// RectWalls returns four segments forming a closed rectangle inset from a
// width x height area.
func RectWalls(width, height, inset float64) []Wall {
	tl := dynamo.Vec2{X: inset, Y: inset}
	bl := dynamo.Vec2{X: inset, Y: height - inset}
	br := dynamo.Vec2{X: width - inset, Y: height - inset}
	tr := dynamo.Vec2{X: width - inset, Y: inset}
	return []Wall{
		{A: tl, B: bl},
		{A: bl, B: br},
		{A: br, B: tr},
		{A: tr, B: tl},
	}
}
