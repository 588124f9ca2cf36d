package sim

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
)

var _ = Describe("Run", func() {
	var w *World

	BeforeEach(func() {
		l, _ := quietLogger()
		var err error
		w, err = New(smallConfig(8, 8), WithLogger(l))
		Expect(err).NotTo(HaveOccurred())
		w.AddMetric(&countingMetric{})
	})

	It("steps the requested number of frames", func() {
		res, err := w.Run(context.Background(), RunConfig{Frames: 30, Dt: 0.01}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(Equal(30))
		Expect(res.SimTime).To(BeNumerically("~", 0.3, 1e-9))
		Expect(res.Metrics).To(HaveKeyWithValue("frames", 30.0))
		Expect(w.Frame()).To(Equal(30))
	})

	It("feeds every frame from the input source", func() {
		var seen []int
		src := InputFunc(func(frame int, _ float64) Input {
			seen = append(seen, frame)
			return Input{PointerHeld: frame%2 == 0, Pointer: dynamo.Vec2{X: 100, Y: 100}}
		})

		_, err := w.Run(context.Background(), RunConfig{Frames: 4, Dt: 0.01}, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{0, 1, 2, 3}))
		Expect(w.Particle(0).Velocity().IsZero()).To(BeFalse())
	})

	It("rejects invalid run settings", func() {
		_, err := w.Run(context.Background(), RunConfig{Frames: 0, Dt: 0.01}, nil)
		Expect(err).To(MatchError(ContainSubstring("frames must be positive")))

		_, err = w.Run(context.Background(), RunConfig{Frames: 10, Dt: 0}, nil)
		Expect(err).To(MatchError(ContainSubstring("dt must be positive")))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := w.Run(ctx, RunConfig{Frames: 100, Dt: 0.01}, nil)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Frames).To(BeZero())
	})

	It("reports the frame that produced a non-finite state", func() {
		w.Particle(3).SetPosition(dynamo.Vec2{X: math.NaN()})

		_, err := w.Run(context.Background(), RunConfig{Frames: 5, Dt: 0.01, ValidateState: true}, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

		var serr *SimError
		Expect(errors.As(err, &serr)).To(BeTrue())
		Expect(serr.Frame).To(Equal(1))

		var perr *dynamo.ParticleError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Index).To(Equal(3))
	})
})

var _ = Describe("FrameClock", func() {
	var (
		now   time.Time
		clock *FrameClock
	)

	BeforeEach(func() {
		now = time.Unix(0, 0)
		clock = NewFrameClock(integrators.MinDt)
		clock.now = func() time.Time { return now }
	})

	It("returns the floor on the first tick", func() {
		Expect(clock.Tick()).To(Equal(integrators.MinDt))
	})

	It("measures the time between ticks", func() {
		clock.Tick()
		now = now.Add(16 * time.Millisecond)
		Expect(clock.Tick()).To(BeNumerically("~", 0.016, 1e-12))
		now = now.Add(32 * time.Millisecond)
		Expect(clock.Tick()).To(BeNumerically("~", 0.032, 1e-12))
	})

	It("never returns less than the floor", func() {
		clock.Tick()
		Expect(clock.Tick()).To(Equal(integrators.MinDt))
	})

	It("falls back to the default floor", func() {
		Expect(NewFrameClock(0).floor).To(Equal(integrators.MinDt))
	})
})
