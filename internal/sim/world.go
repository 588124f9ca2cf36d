package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/batch"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/physics"
)

// minParallelChunk keeps goroutine overhead small next to per-particle work.
const minParallelChunk = 4096

// World is the simulation loop state: the particle population, the per-frame
// force and collision stages and the chunked render output.
//
// World is not safe for concurrent use. Step parallelises internally and
// returns only once every particle and chunk is up to date.
type World struct {
	cfg       *config.Config
	particles []physics.Particle
	initial   []physics.Particle // custom population, restored by Reset
	pointer   physics.PointerAttraction
	walls     []physics.Wall
	wallsOn   bool
	batcher   *batch.Batcher
	workers   int
	metrics   []Metric
	observers []Observer
	log       logrus.FieldLogger

	frame       int
	time        float64
	clampLogged bool
}

type Option func(*World)

func WithLogger(l logrus.FieldLogger) Option {
	return func(w *World) { w.log = l }
}

// WithParticles replaces the grid layout with the given population.
func WithParticles(ps []physics.Particle) Option {
	return func(w *World) { w.particles = ps }
}

// New validates cfg and builds a world. Without WithParticles the population
// is a Grid.Cols x Grid.Rows lattice spaced InitialSpacing apart.
func New(cfg *config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		cfg:     cfg.Clone(),
		pointer: physics.PointerAttraction{Scale: cfg.PointerForceScale, Softening: cfg.PointerSoftening},
		walls:   buildWalls(cfg),
		wallsOn: cfg.Walls.Enabled,
		workers: dynamo.Workers(cfg.Workers),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.particles == nil {
		ps, err := Grid(cfg)
		if err != nil {
			return nil, err
		}
		w.particles = ps
	} else {
		w.initial = make([]physics.Particle, len(w.particles))
		for i := range w.particles {
			if err := w.particles[i].Validate(); err != nil {
				return nil, &dynamo.ParticleError{Index: i, Wrapped: err}
			}
			w.initial[i] = w.particles[i].Clone()
		}
	}

	if n := len(w.particles); n > cfg.ChunkCount*cfg.ChunkSize {
		return nil, fmt.Errorf("%w: %d particles exceed %d chunks of %d",
			dynamo.ErrParameterBounds, n, cfg.ChunkCount, cfg.ChunkSize)
	}

	b, err := batch.NewBatcher(len(w.particles), cfg.ChunkSize)
	if err != nil {
		return nil, err
	}
	w.batcher = b
	w.Batch()

	w.log.WithFields(logrus.Fields{
		"particles": len(w.particles),
		"chunks":    len(b.Chunks()),
		"workers":   w.workers,
		"walls":     w.wallsOn,
	}).Info("world created")

	return w, nil
}

// Grid lays out Cols x Rows particles row by row starting at the origin.
func Grid(cfg *config.Config) ([]physics.Particle, error) {
	g := cfg.Grid
	ps := make([]physics.Particle, 0, g.Cols*g.Rows)
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			pos := dynamo.Vec2{
				X: float64(j)*cfg.InitialSpacing + g.OriginX,
				Y: float64(i)*cfg.InitialSpacing + g.OriginY,
			}
			p, err := physics.New(g.Mass, pos, dynamo.Vec2{})
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func buildWalls(cfg *config.Config) []physics.Wall {
	if len(cfg.Walls.Segments) == 0 {
		return physics.RectWalls(float64(cfg.Window.Width), float64(cfg.Window.Height), cfg.Walls.Inset)
	}
	walls := make([]physics.Wall, len(cfg.Walls.Segments))
	for i, s := range cfg.Walls.Segments {
		walls[i] = physics.Wall{
			A: dynamo.Vec2{X: s[0], Y: s[1]},
			B: dynamo.Vec2{X: s[2], Y: s[3]},
		}
	}
	return walls
}

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Step advances every particle by one frame of length dt:
// forces, integration, optional wall pass, force clear. Chunks are refilled
// afterwards and metrics and observers see the finished frame.
func (w *World) Step(in Input, dt float64) {
	dt = w.clampDt(dt)

	dynamo.ParallelFor(len(w.particles), minParallelChunk, w.workers, func(start, end int) {
		for i := start; i < end; i++ {
			w.stepParticle(&w.particles[i], in, dt)
		}
	})

	w.frame++
	w.time += dt

	w.Batch()

	for _, m := range w.metrics {
		m.Observe(w.particles, w.time)
	}
	for _, o := range w.observers {
		o.OnFrame(w)
	}
}

func (w *World) stepParticle(p *physics.Particle, in Input, dt float64) {
	if p.IsMovable() {
		w.applyForces(p, in)
		prev := p.Position()
		p.UpdatePosition(dt)
		if w.wallsOn {
			physics.Collide(w.walls, p, prev, w.cfg.RestitutionCoefficient)
		}
	}
	p.ClearForce()
}

func (w *World) applyForces(p *physics.Particle, in Input) {
	p.AddForce(w.pointer.Force(p.Position(), in.Pointer, in.PointerHeld))
	p.AddForce(physics.Drag(p.Velocity(), w.cfg.DragCoefficient))
	if w.cfg.Gravity != 0 {
		p.AddForce(physics.Gravity(w.cfg.Gravity))
	}
}

func (w *World) clampDt(dt float64) float64 {
	clamped := integrators.ClampDt(dt, w.cfg.MinDt)
	if clamped != dt && !w.clampLogged {
		w.clampLogged = true
		w.log.WithFields(logrus.Fields{"dt": dt, "min_dt": clamped, "frame": w.frame}).Debug("frame delta clamped")
	}
	return clamped
}

// Batch copies positions and speed colors into the chunk buffers.
func (w *World) Batch() {
	chunks := w.batcher.Chunks()
	dynamo.ParallelFor(len(chunks), 1, w.workers, func(start, end int) {
		for c := start; c < end; c++ {
			lo, hi := w.batcher.Range(c)
			for i := lo; i < hi; i++ {
				p := &w.particles[i]
				w.batcher.Fill(i, p.Position(), p.Speed())
			}
		}
	})
}

// CheckState returns the first particle with a non-finite state.
func (w *World) CheckState() error {
	for i := range w.particles {
		if err := w.particles[i].Validate(); err != nil {
			return &dynamo.ParticleError{Index: i, Wrapped: err}
		}
	}
	return nil
}

// Reset restores the starting population (the grid, or the particles given
// WithParticles) and zeroes the clock.
func (w *World) Reset() error {
	if w.initial != nil {
		for i := range w.initial {
			w.particles[i] = w.initial[i].Clone()
		}
	} else {
		ps, err := Grid(w.cfg)
		if err != nil {
			return err
		}
		w.particles = ps
	}
	w.frame = 0
	w.time = 0
	for _, m := range w.metrics {
		m.Reset()
	}
	w.Batch()
	return nil
}

func (w *World) Chunks() []*batch.Chunk { return w.batcher.Chunks() }

// Particles returns the live population; callers must not retain it across Step.
func (w *World) Particles() []physics.Particle { return w.particles }

func (w *World) Particle(i int) *physics.Particle { return &w.particles[i] }
func (w *World) Len() int                         { return len(w.particles) }
func (w *World) Frame() int                       { return w.frame }
func (w *World) Time() float64                    { return w.time }
func (w *World) Walls() []physics.Wall            { return w.walls }
func (w *World) WallsEnabled() bool               { return w.wallsOn }
func (w *World) SetWallsEnabled(on bool)          { w.wallsOn = on }
func (w *World) Workers() int                     { return w.workers }
func (w *World) Config() *config.Config           { return w.cfg }

// MetricValues returns the current value of every registered metric.
func (w *World) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(w.metrics))
	for _, m := range w.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
