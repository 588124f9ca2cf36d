// Package optim sweeps world parameters over a grid and ranks them by a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
)

var setters = map[string]func(c *config.Config, v float64){
	"gravity":                 func(c *config.Config, v float64) { c.Gravity = v },
	"drag_coefficient":        func(c *config.Config, v float64) { c.DragCoefficient = v },
	"restitution_coefficient": func(c *config.Config, v float64) { c.RestitutionCoefficient = v },
	"pointer_force_scale":     func(c *config.Config, v float64) { c.PointerForceScale = v },
	"pointer_softening":       func(c *config.Config, v float64) { c.PointerSoftening = v },
	"initial_spacing":         func(c *config.Config, v float64) { c.InitialSpacing = v },
	"mass":                    func(c *config.Config, v float64) { c.Grid.Mass = v },
}

// Params lists the config fields a GridSearch can vary.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type SearchResult struct {
	Best   map[string]float64
	Value  float64
	Trials []Trial
}

// Objective describes what a trial runs and how it is scored.
type Objective struct {
	Metric   string
	Maximize bool
	Run      sim.RunConfig
	Input    sim.InputSource
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        logrus.FieldLogger
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params with %d ranges", dynamo.ErrParameterBounds, len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: no values for %q", dynamo.ErrParameterBounds, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: logrus.StandardLogger()}, nil
}

func (g *GridSearch) SetLogger(l logrus.FieldLogger) { g.log = l }

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs one world per grid point, each built from a copy of base.
// Grid points that fail validation or produce a non-finite state are kept
// in Trials with their error and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, obj Objective) (*SearchResult, error) {
	if _, err := metrics.New(obj.Metric, base); err != nil {
		return nil, err
	}

	res := &SearchResult{Value: math.NaN()}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, obj, res); err != nil {
		return res, err
	}
	if res.Best == nil {
		return res, fmt.Errorf("%w: no grid point produced a finite %s", dynamo.ErrInvalidState, obj.Metric)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	obj Objective,
	res *SearchResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, base, current, obj)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.Trials = append(res.Trials, Trial{Params: current, Value: val, Err: err})
		if err != nil {
			g.log.WithError(err).WithField("params", current).Warn("trial failed")
			return nil
		}
		if res.Best == nil || better(val, res.Value, obj.Maximize) {
			res.Value = val
			res.Best = current
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, obj, res); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, obj Objective) (float64, error) {
	cfg := base.Clone()
	for name, v := range params {
		setters[name](cfg, v)
	}
	if err := cfg.Validate(); err != nil {
		return math.NaN(), err
	}

	w, err := sim.New(cfg, sim.WithLogger(g.log))
	if err != nil {
		return math.NaN(), err
	}
	m, err := metrics.New(obj.Metric, cfg)
	if err != nil {
		return math.NaN(), err
	}
	w.AddMetric(m)

	rc := obj.Run
	rc.ValidateState = true
	r, err := w.Run(ctx, rc, obj.Input)
	if err != nil {
		return math.NaN(), err
	}

	val := r.Metrics[m.Name()]
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val, fmt.Errorf("%w: %s=%v", dynamo.ErrInvalidState, m.Name(), val)
	}
	g.log.WithFields(logrus.Fields{"params": params, obj.Metric: val}).Debug("trial finished")
	return val, nil
}

func better(v, best float64, maximize bool) bool {
	if maximize {
		return v > best
	}
	return v < best
}
