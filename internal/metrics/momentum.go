package metrics

import (
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/physics"
)

// Momentum is the magnitude of the population's total linear momentum in
// the latest frame.
type Momentum struct {
	value float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(ps []physics.Particle, _ float64) {
	var p dynamo.Vec2
	for i := range ps {
		p = p.Add(ps[i].Velocity().Scale(ps[i].Mass()))
	}
	m.value = p.Norm()
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }
