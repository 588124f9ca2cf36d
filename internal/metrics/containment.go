package metrics

import (
	"github.com/san-kum/particles/internal/physics"
)

// Containment is the fraction of observed frames in which every particle
// stayed inside the bounds rectangle.
type Containment struct {
	minX, minY float64
	maxX, maxY float64
	violations int
	samples    int
}

// NewContainment checks against the rectangle inset from a width x height
// area, the same rectangle physics.RectWalls builds.
func NewContainment(width, height, inset float64) *Containment {
	return &Containment{
		minX: inset,
		minY: inset,
		maxX: width - inset,
		maxY: height - inset,
	}
}

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(ps []physics.Particle, _ float64) {
	c.samples++
	for i := range ps {
		x := ps[i].Position()
		if x.X < c.minX || x.X > c.maxX || x.Y < c.minY || x.Y > c.maxY {
			c.violations++
			return
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
