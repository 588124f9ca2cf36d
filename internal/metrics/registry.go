package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

var registry = map[string]func(cfg *config.Config) sim.Metric{
	"mean_speed":     func(*config.Config) sim.Metric { return NewMeanSpeed() },
	"max_speed":      func(*config.Config) sim.Metric { return NewMaxSpeed() },
	"speed_spread":   func(*config.Config) sim.Metric { return NewSpeedSpread() },
	"kinetic_energy": func(*config.Config) sim.Metric { return NewKineticEnergy() },
	"energy_drift":   func(*config.Config) sim.Metric { return NewEnergyDrift() },
	"momentum":       func(*config.Config) sim.Metric { return NewMomentum() },
	"containment": func(cfg *config.Config) sim.Metric {
		return NewContainment(float64(cfg.Window.Width), float64(cfg.Window.Height), cfg.Walls.Inset)
	},
}

// New builds the named metric for a world running cfg.
func New(name string, cfg *config.Config) (sim.Metric, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", dynamo.ErrParameterBounds, name)
	}
	return ctor(cfg), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
