package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particles/internal/physics"
)

func totalKinetic(dst []float64, ps []physics.Particle) ([]float64, float64) {
	dst = dst[:0]
	for i := range ps {
		v := ps[i].Velocity()
		dst = append(dst, 0.5*ps[i].Mass()*v.Dot(v))
	}
	if len(dst) == 0 {
		return dst, 0
	}
	return dst, floats.Sum(dst)
}

// KineticEnergy averages the total kinetic energy over observed frames.
type KineticEnergy struct {
	buf     []float64
	last    float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(ps []physics.Particle, _ float64) {
	k.buf, k.last = totalKinetic(k.buf, ps)
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last is the total kinetic energy of the latest frame.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.last = 0
	k.total = 0
	k.samples = 0
}

// EnergyDrift tracks the largest relative change of total kinetic energy
// from the first observed non-zero value. Without forces and with elastic
// walls it stays near zero.
type EnergyDrift struct {
	buf      []float64
	initial  float64
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(ps []physics.Particle, _ float64) {
	var energy float64
	e.buf, energy = totalKinetic(e.buf, ps)

	if e.initial == 0 {
		e.initial = energy
		return
	}
	drift := math.Abs(energy-e.initial) / e.initial
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
}
