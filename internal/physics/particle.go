package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
)

const (
	DefaultMass = 50.0
	DefaultX    = 50.0
	DefaultY    = 50.0
)

// Particle is a point mass following Newton's second law. Forces are
// accumulated during a frame, consumed by UpdatePosition and then cleared.
type Particle struct {
	mass         float64
	position     dynamo.Vec2
	velocity     dynamo.Vec2
	acceleration dynamo.Vec2
	forces       []dynamo.Vec2
	movable      bool
}

// NewDefault returns a movable particle of mass 50 at rest at (50, 50).
func NewDefault() Particle {
	return Particle{
		mass:     DefaultMass,
		position: dynamo.Vec2{X: DefaultX, Y: DefaultY},
		movable:  true,
	}
}

// New returns a movable particle with the given mass, position and velocity.
func New(mass float64, position, velocity dynamo.Vec2) (Particle, error) {
	if err := checkMass(mass); err != nil {
		return Particle{}, err
	}
	return Particle{
		mass:     mass,
		position: position,
		velocity: velocity,
		movable:  true,
	}, nil
}

func checkMass(m float64) error {
	if !(m > 0) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidMass, m)
	}
	return nil
}

func (p *Particle) Mass() float64 { return p.mass }

// SetMass changes the mass, rejecting values that are not strictly positive.
func (p *Particle) SetMass(m float64) error {
	if err := checkMass(m); err != nil {
		return err
	}
	p.mass = m
	return nil
}

// AddForce appends f to this frame's accumulator.
func (p *Particle) AddForce(f dynamo.Vec2) {
	p.forces = append(p.forces, f)
}

// ClearForce empties the accumulator, keeping its backing storage.
func (p *Particle) ClearForce() {
	p.forces = p.forces[:0]
}

// Clone returns a copy of p with its own force accumulator.
func (p *Particle) Clone() Particle {
	c := *p
	c.forces = append([]dynamo.Vec2(nil), p.forces...)
	return c
}

// Forces returns a copy of the forces accumulated this frame.
func (p *Particle) Forces() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(p.forces))
	copy(out, p.forces)
	return out
}

// TotalForce is the vector sum of the accumulated forces.
func (p *Particle) TotalForce() dynamo.Vec2 {
	return dynamo.Sum(p.forces)
}

func (p *Particle) Position() dynamo.Vec2         { return p.position }
func (p *Particle) SetPosition(x dynamo.Vec2)     { p.position = x }
func (p *Particle) Velocity() dynamo.Vec2         { return p.velocity }
func (p *Particle) SetVelocity(v dynamo.Vec2)     { p.velocity = v }
func (p *Particle) Speed() float64                { return p.velocity.Norm() }
func (p *Particle) Acceleration() dynamo.Vec2     { return p.acceleration }
func (p *Particle) SetAcceleration(a dynamo.Vec2) { p.acceleration = a }

func (p *Particle) SetStatic()      { p.movable = false }
func (p *Particle) SetMovable()     { p.movable = true }
func (p *Particle) IsMovable() bool { return p.movable }

// UpdatePosition integrates one frame of length dt with the accumulated
// force, see integrators.PositionDelta. Static particles are left untouched.
// dt below integrators.MinDt is raised to it.
func (p *Particle) UpdatePosition(dt float64) {
	if !p.movable {
		return
	}
	dt = integrators.ClampDt(dt, integrators.MinDt)
	acc := p.TotalForce().Scale(1 / p.mass)
	p.position, p.velocity = integrators.PositionDelta(p.position, p.velocity, acc, dt)
}

// Validate reports whether the particle's kinematic state is finite.
func (p *Particle) Validate() error {
	if err := checkMass(p.mass); err != nil {
		return err
	}
	if !p.position.IsValid() || !p.velocity.IsValid() {
		return fmt.Errorf("%w: position %v velocity %v", dynamo.ErrInvalidState, p.position, p.velocity)
	}
	return nil
}
