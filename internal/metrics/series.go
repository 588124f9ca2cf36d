package metrics

import (
	"github.com/san-kum/particles/internal/physics"
	"github.com/san-kum/particles/internal/sim"
)

// Series wraps a metric and records its value after every frame. It is a
// metric itself, so registering the Series is enough.
type Series struct {
	metric sim.Metric
	limit  int
	times  []float64
	values []float64
}

// NewSeries records at most limit samples, dropping the oldest. A limit
// below 1 keeps everything.
func NewSeries(m sim.Metric, limit int) *Series {
	return &Series{metric: m, limit: limit}
}

func (s *Series) Name() string { return s.metric.Name() }

func (s *Series) Observe(ps []physics.Particle, t float64) {
	s.metric.Observe(ps, t)
	s.times = append(s.times, t)
	s.values = append(s.values, s.metric.Value())
	if s.limit > 0 && len(s.values) > s.limit {
		drop := len(s.values) - s.limit
		s.times = append(s.times[:0], s.times[drop:]...)
		s.values = append(s.values[:0], s.values[drop:]...)
	}
}

func (s *Series) Value() float64 { return s.metric.Value() }

func (s *Series) Reset() {
	s.metric.Reset()
	s.times = s.times[:0]
	s.values = s.values[:0]
}

func (s *Series) Values() []float64 { return s.values }
func (s *Series) Times() []float64  { return s.times }
func (s *Series) Len() int          { return len(s.values) }
