package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/physics"
)

func mustParticle(mass float64, pos, vel dynamo.Vec2) physics.Particle {
	p, err := physics.New(mass, pos, vel)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("World", func() {
	Describe("New", func() {
		It("lays out the grid row by row from the origin", func() {
			l, _ := quietLogger()
			cfg := smallConfig(3, 2)

			w, err := New(cfg, WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Len()).To(Equal(6))

			Expect(w.Particle(0).Position()).To(Equal(dynamo.Vec2{X: 20, Y: 20}))
			Expect(w.Particle(2).Position()).To(Equal(dynamo.Vec2{X: 21, Y: 20}))
			Expect(w.Particle(4).Position()).To(Equal(dynamo.Vec2{X: 20.5, Y: 20.5}))
			for i := 0; i < w.Len(); i++ {
				Expect(w.Particle(i).Mass()).To(Equal(10.0))
				Expect(w.Particle(i).IsMovable()).To(BeTrue())
			}
		})

		It("rejects a non-positive grid mass", func() {
			cfg := smallConfig(2, 2)
			cfg.Grid.Mass = 0

			_, err := New(cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidMass)).To(BeTrue())
		})

		It("rejects a custom particle without mass", func() {
			l, _ := quietLogger()
			ps := []physics.Particle{physics.NewDefault(), {}}

			_, err := New(smallConfig(0, 0), WithLogger(l), WithParticles(ps))
			Expect(errors.Is(err, dynamo.ErrInvalidMass)).To(BeTrue())

			var perr *dynamo.ParticleError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Index).To(Equal(1))
		})

		It("rejects more particles than the chunks can hold", func() {
			l, _ := quietLogger()
			cfg := smallConfig(0, 0)
			cfg.ChunkCount = 1

			ps := make([]physics.Particle, 101)
			for i := range ps {
				ps[i] = physics.NewDefault()
			}
			_, err := New(cfg, WithLogger(l), WithParticles(ps))
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("logs the world layout", func() {
			l, hook := quietLogger()
			_, err := New(smallConfig(5, 5), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())

			entry := hook.LastEntry()
			Expect(entry).NotTo(BeNil())
			Expect(entry.Message).To(Equal("world created"))
			Expect(entry.Data).To(HaveKeyWithValue("particles", 25))
			Expect(entry.Data).To(HaveKeyWithValue("chunks", 1))
		})
	})

	Describe("Step", func() {
		var w *World

		BeforeEach(func() {
			l, _ := quietLogger()
			var err error
			w, err = New(smallConfig(10, 10), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves particles at rest when the pointer is released", func() {
			before := append([]physics.Particle(nil), w.Particles()...)
			w.Step(Input{PointerHeld: false, Pointer: dynamo.Vec2{X: 1e4}}, 0.016)

			for i := range before {
				Expect(w.Particle(i).Position()).To(Equal(before[i].Position()))
				Expect(w.Particle(i).Velocity().IsZero()).To(BeTrue())
			}
		})

		It("pulls particles toward a held pointer", func() {
			pointer := dynamo.Vec2{X: 500, Y: 22}
			start := w.Particle(0).Position()
			w.Step(Input{PointerHeld: true, Pointer: pointer}, 0.01)

			moved := w.Particle(0).Position().Sub(start)
			Expect(moved.Dot(pointer.Sub(start))).To(BeNumerically(">", 0))
			Expect(w.Particle(0).Velocity().Norm()).To(BeNumerically(">", 0))
		})

		It("clears every force accumulator", func() {
			w.Particle(3).AddForce(dynamo.Vec2{X: 7})
			w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{}}, 0.01)

			for i := 0; i < w.Len(); i++ {
				Expect(w.Particle(i).Forces()).To(BeEmpty())
			}
		})

		It("never moves static particles", func() {
			w.Particle(5).SetStatic()
			w.Particle(5).AddForce(dynamo.Vec2{X: 1e6})
			start := w.Particle(5).Position()

			for i := 0; i < 5; i++ {
				w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 300, Y: 300}}, 0.01)
			}

			Expect(w.Particle(5).Position()).To(Equal(start))
			Expect(w.Particle(5).Velocity().IsZero()).To(BeTrue())
			Expect(w.Particle(5).Forces()).To(BeEmpty())
			Expect(w.Particle(6).Velocity().IsZero()).To(BeFalse())
		})

		It("clamps a zero frame delta", func() {
			l, hook := quietLogger()
			w, err := New(smallConfig(2, 2), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())

			w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 100}}, 0)

			Expect(w.Time()).To(Equal(integrators.MinDt))
			Expect(w.CheckState()).To(Succeed())
			Expect(hook.LastEntry().Message).To(Equal("frame delta clamped"))
		})

		It("integrates particles with the configured floor", func() {
			l, _ := quietLogger()
			cfg := smallConfig(0, 0)
			cfg.MinDt = 1e-6
			w, err := New(cfg, WithLogger(l), WithParticles([]physics.Particle{
				mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{X: 1}),
			}))
			Expect(err).NotTo(HaveOccurred())

			w.Step(Input{}, 0)
			Expect(w.Time()).To(Equal(1e-6))
			Expect(w.Particle(0).Position().X).To(BeNumerically("~", w.Time(), 1e-18))
		})

		It("rejects a floor below the integrator minimum", func() {
			l, _ := quietLogger()
			cfg := smallConfig(2, 2)
			cfg.MinDt = 1e-12
			_, err := New(cfg, WithLogger(l))
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("advances the frame counter and clock", func() {
			w.Step(Input{}, 0.5)
			w.Step(Input{}, 0.25)
			Expect(w.Frame()).To(Equal(2))
			Expect(w.Time()).To(BeNumerically("~", 0.75, 1e-12))
		})
	})

	Describe("forces", func() {
		newWorld := func(mutate func(*World), ps ...physics.Particle) *World {
			l, _ := quietLogger()
			cfg := smallConfig(0, 0)
			w, err := New(cfg, WithLogger(l), WithParticles(ps))
			Expect(err).NotTo(HaveOccurred())
			if mutate != nil {
				mutate(w)
			}
			return w
		}

		It("integrates externally added forces", func() {
			w := newWorld(nil, mustParticle(10, dynamo.Vec2{}, dynamo.Vec2{}))
			w.Particle(0).AddForce(dynamo.Vec2{X: 100})
			w.Step(Input{}, 1)

			Expect(w.Particle(0).Position()).To(Equal(dynamo.Vec2{X: 5}))
			Expect(w.Particle(0).Velocity()).To(Equal(dynamo.Vec2{X: 5}))
		})

		It("applies drag against the velocity", func() {
			free := newWorld(nil, mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{X: 10}))
			damped := newWorld(func(w *World) { w.cfg.DragCoefficient = 2 },
				mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{X: 10}))

			free.Step(Input{}, 0.1)
			damped.Step(Input{}, 0.1)

			Expect(free.Particle(0).Velocity().X).To(BeNumerically("~", 10, 1e-9))
			Expect(damped.Particle(0).Velocity().X).To(BeNumerically("<", 10))
			Expect(damped.Particle(0).Velocity().X).To(BeNumerically(">", 0))
		})

		It("applies gravity along +y", func() {
			w := newWorld(func(w *World) { w.cfg.Gravity = 2000 },
				mustParticle(10, dynamo.Vec2{}, dynamo.Vec2{}))
			w.Step(Input{}, 0.1)

			Expect(w.Particle(0).Position().X).To(Equal(0.0))
			Expect(w.Particle(0).Position().Y).To(BeNumerically("~", 0.5*200*0.01, 1e-12))
		})
	})

	Describe("walls", func() {
		var w *World

		BeforeEach(func() {
			l, _ := quietLogger()
			cfg := smallConfig(0, 0)
			cfg.Walls.Enabled = true
			cfg.Walls.Segments = [][4]float64{{0, 0, 10, 0}}
			cfg.RestitutionCoefficient = 1

			var err error
			w, err = New(cfg, WithLogger(l),
				WithParticles([]physics.Particle{mustParticle(1, dynamo.Vec2{X: 5, Y: 1}, dynamo.Vec2{Y: -10})}))
			Expect(err).NotTo(HaveOccurred())
		})

		It("bounces an elastic particle back from a horizontal wall", func() {
			w.Step(Input{}, 0.15)

			p := w.Particle(0)
			Expect(p.Position()).To(Equal(dynamo.Vec2{X: 5, Y: 1}))
			Expect(p.Velocity().X).To(BeNumerically("~", 0, 1e-9))
			Expect(p.Velocity().Y).To(BeNumerically("~", 10, 1e-9))
		})

		It("lets particles through when the pass is disabled", func() {
			w.SetWallsEnabled(false)
			Expect(w.WallsEnabled()).To(BeFalse())

			w.Step(Input{}, 0.15)
			Expect(w.Particle(0).Position().Y).To(BeNumerically("~", -0.5, 1e-12))
		})

		It("builds the default rectangle when no segments are given", func() {
			l, _ := quietLogger()
			w, err := New(smallConfig(1, 1), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Walls()).To(HaveLen(4))
			Expect(w.Walls()[0].A).To(Equal(dynamo.Vec2{X: 10, Y: 10}))
			Expect(w.WallsEnabled()).To(BeFalse())
		})
	})

	Describe("chunks", func() {
		It("splits 250 particles into 100, 100 and 50 in collection order", func() {
			l, _ := quietLogger()
			cfg := smallConfig(25, 10)
			w, err := New(cfg, WithLogger(l))
			Expect(err).NotTo(HaveOccurred())

			w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 30, Y: 30}}, 0.01)

			chunks := w.Chunks()
			Expect(chunks).To(HaveLen(3))
			Expect(chunks[0].Len()).To(Equal(100))
			Expect(chunks[1].Len()).To(Equal(100))
			Expect(chunks[2].Len()).To(Equal(50))

			idx := 0
			for _, c := range chunks {
				coords := c.Coords()
				for k := 0; k < c.Len(); k++ {
					pos := w.Particle(idx).Position()
					Expect(coords[2*k]).To(Equal(float32(pos.X)))
					Expect(coords[2*k+1]).To(Equal(float32(pos.Y)))
					idx++
				}
			}
			Expect(idx).To(Equal(250))
		})

		It("colors particles by speed", func() {
			l, _ := quietLogger()
			w, err := New(smallConfig(0, 0), WithLogger(l), WithParticles([]physics.Particle{
				mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{}),
				mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{X: 100}),
				mustParticle(1, dynamo.Vec2{}, dynamo.Vec2{Y: 400}),
			}))
			Expect(err).NotTo(HaveOccurred())

			w.Step(Input{}, 0.01)
			Expect(w.Chunks()[0].Colors()).To(Equal([]uint8{255, 255, 0, 255, 155, 0, 255, 0, 0}))
		})
	})

	Describe("parallel stepping", func() {
		It("matches the serial result exactly", func() {
			l, _ := quietLogger()
			serialCfg := smallConfig(100, 100)
			serialCfg.ChunkSize, serialCfg.ChunkCount = 10000, 1
			parallelCfg := serialCfg.Clone()
			parallelCfg.Workers = 4

			serial, err := New(serialCfg, WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
			parallel, err := New(parallelCfg, WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel.Workers()).To(Equal(4))

			in := Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 40, Y: 50}}
			for i := 0; i < 5; i++ {
				serial.Step(in, 0.016)
				parallel.Step(in, 0.016)
			}

			for i := 0; i < serial.Len(); i++ {
				Expect(parallel.Particle(i).Position()).To(Equal(serial.Particle(i).Position()))
				Expect(parallel.Particle(i).Velocity()).To(Equal(serial.Particle(i).Velocity()))
			}
			Expect(parallel.Chunks()[0].Coords()).To(Equal(serial.Chunks()[0].Coords()))
		})
	})

	Describe("metrics and observers", func() {
		It("notifies after every frame", func() {
			l, _ := quietLogger()
			w, err := New(smallConfig(2, 2), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())

			m := &countingMetric{}
			o := &recordingObserver{}
			w.AddMetric(m)
			w.AddObserver(o)

			for i := 0; i < 3; i++ {
				w.Step(Input{}, 0.1)
			}

			Expect(m.frames).To(Equal(3))
			Expect(m.lastT).To(BeNumerically("~", 0.3, 1e-12))
			Expect(o.frames).To(Equal([]int{1, 2, 3}))
			Expect(w.MetricValues()).To(HaveKeyWithValue("frames", 3.0))
		})
	})

	Describe("Reset", func() {
		It("restores the grid and zeroes the clock", func() {
			l, _ := quietLogger()
			w, err := New(smallConfig(4, 4), WithLogger(l))
			Expect(err).NotTo(HaveOccurred())
			start := w.Particle(7).Position()

			w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{}}, 0.05)
			Expect(w.Particle(7).Position()).NotTo(Equal(start))

			Expect(w.Reset()).To(Succeed())
			Expect(w.Particle(7).Position()).To(Equal(start))
			Expect(w.Frame()).To(BeZero())
			Expect(w.Time()).To(BeZero())
		})

		It("restores a custom population instead of the grid", func() {
			l, _ := quietLogger()
			start := dynamo.Vec2{X: 3, Y: 4}
			ps := []physics.Particle{
				mustParticle(2, start, dynamo.Vec2{X: 1}),
				mustParticle(5, dynamo.Vec2{X: -8}, dynamo.Vec2{}),
			}
			w, err := New(smallConfig(3, 3), WithLogger(l), WithParticles(ps))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				w.Step(Input{PointerHeld: true, Pointer: dynamo.Vec2{Y: 50}}, 0.05)
			}
			Expect(w.Particle(0).Position()).NotTo(Equal(start))

			Expect(w.Reset()).To(Succeed())
			Expect(w.Len()).To(Equal(2))
			Expect(w.Particle(0).Position()).To(Equal(start))
			Expect(w.Particle(0).Velocity()).To(Equal(dynamo.Vec2{X: 1}))
			Expect(w.Particle(1).Mass()).To(Equal(5.0))
			Expect(w.Chunks()[0].Coords()[:2]).To(Equal([]float32{3, 4}))

			w.Step(Input{}, 0.05)
			Expect(w.Reset()).To(Succeed())
			Expect(w.Particle(0).Position()).To(Equal(start))
		})
	})
})
