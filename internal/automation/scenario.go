// Package automation scripts the pointer for headless runs. A scenario is a
// YAML list of steps, each lasting a number of frames.
package automation

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

// Scenario defines a scripted pointer sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
	// Loop restarts the sequence after the last step instead of releasing
	// the pointer.
	Loop bool `yaml:"loop"`
}

// Step holds or releases the pointer at (X, Y) for Frames frames. A
// non-zero Radius moves the pointer on a circle around (X, Y) with one
// revolution every Period seconds.
type Step struct {
	Frames int     `yaml:"frames"`
	Hold   bool    `yaml:"hold"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Period float64 `yaml:"period"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrParameterBounds, s.Name)
	}
	for i, st := range s.Steps {
		if st.Frames <= 0 {
			return fmt.Errorf("%w: step %d: frames must be positive, got %d", dynamo.ErrParameterBounds, i+1, st.Frames)
		}
		if st.Radius != 0 && !(st.Period > 0) {
			return fmt.Errorf("%w: step %d: orbit needs a positive period", dynamo.ErrParameterBounds, i+1)
		}
	}
	return nil
}

// Frames is the length of one pass through the steps.
func (s *Scenario) Frames() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Frames
	}
	return n
}

// Input implements sim.InputSource. After the last step the pointer is
// released unless the scenario loops.
func (s *Scenario) Input(frame int, t float64) sim.Input {
	total := s.Frames()
	if total == 0 {
		return sim.Input{}
	}
	if frame >= total {
		if !s.Loop {
			return sim.Input{}
		}
		frame %= total
	}

	for _, st := range s.Steps {
		if frame < st.Frames {
			return sim.Input{PointerHeld: st.Hold, Pointer: st.pointer(t)}
		}
		frame -= st.Frames
	}
	return sim.Input{}
}

func (st Step) pointer(t float64) dynamo.Vec2 {
	center := dynamo.Vec2{X: st.X, Y: st.Y}
	if st.Radius == 0 {
		return center
	}
	phase := 2 * math.Pi * t / st.Period
	return center.Add(dynamo.Vec2{X: math.Cos(phase), Y: math.Sin(phase)}.Scale(st.Radius))
}
