package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particles/internal/physics"
)

func speeds(dst []float64, ps []physics.Particle) []float64 {
	dst = dst[:0]
	for i := range ps {
		dst = append(dst, ps[i].Speed())
	}
	return dst
}

// MeanSpeed is the mean particle speed of the latest frame.
type MeanSpeed struct {
	buf   []float64
	value float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(ps []physics.Particle, _ float64) {
	m.buf = speeds(m.buf, ps)
	if len(m.buf) == 0 {
		m.value = 0
		return
	}
	m.value = stat.Mean(m.buf, nil)
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }

// MaxSpeed is the largest speed seen over all observed frames.
type MaxSpeed struct {
	buf   []float64
	value float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(ps []physics.Particle, _ float64) {
	m.buf = speeds(m.buf, ps)
	if len(m.buf) == 0 {
		return
	}
	if v := floats.Max(m.buf); v > m.value {
		m.value = v
	}
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }

// SpeedSpread is the standard deviation of particle speeds in the latest
// frame. A swarm moving as one block has zero spread.
type SpeedSpread struct {
	buf   []float64
	value float64
}

func NewSpeedSpread() *SpeedSpread { return &SpeedSpread{} }

func (s *SpeedSpread) Name() string { return "speed_spread" }

func (s *SpeedSpread) Observe(ps []physics.Particle, _ float64) {
	s.buf = speeds(s.buf, ps)
	if len(s.buf) < 2 {
		s.value = 0
		return
	}
	s.value = stat.StdDev(s.buf, nil)
}

func (s *SpeedSpread) Value() float64 { return s.value }
func (s *SpeedSpread) Reset()         { s.value = 0 }
