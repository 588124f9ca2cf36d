package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/physics"
)

func sine(freq, dt float64, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return data
}

func TestPowerSpectrum_PeakBin(t *testing.T) {
	ps := PowerSpectrum(sine(5, 0.01, 200))
	require.Len(t, ps, 100)

	peak := 0
	for i := range ps {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	assert.Equal(t, 10, peak)
	assert.InDelta(t, 0, ps[0], 1e-9, "mean should be removed")
}

func TestPowerSpectrum_Short(t *testing.T) {
	assert.Nil(t, PowerSpectrum(nil))
	assert.Nil(t, PowerSpectrum([]float64{1}))
}

func TestDominantFrequency(t *testing.T) {
	freq, power := DominantFrequency(sine(5, 0.01, 200), 0.01)
	assert.InDelta(t, 5, freq, 1e-9)
	assert.Greater(t, power, 0.0)

	freq, power = DominantFrequency([]float64{2, 2, 2, 2}, 0.01)
	assert.Zero(t, freq)
	assert.Zero(t, power)
}

func particlesAt(t *testing.T, pts ...dynamo.Vec2) []physics.Particle {
	t.Helper()
	ps := make([]physics.Particle, len(pts))
	for i, p := range pts {
		var err error
		ps[i], err = physics.New(1, p, dynamo.Vec2{})
		require.NoError(t, err)
	}
	return ps
}

func TestDensityMap(t *testing.T) {
	ps := particlesAt(t,
		dynamo.Vec2{X: 1, Y: 1},
		dynamo.Vec2{X: 9, Y: 9},
		dynamo.Vec2{X: 9, Y: 9},
		dynamo.Vec2{X: 50, Y: 50},
	)
	out := DensityMap(ps, Bounds{MaxX: 10, MaxY: 10}, 2, 2)
	assert.Equal(t, ". \n @\n", out)
}

func TestDensityMap_Empty(t *testing.T) {
	assert.Empty(t, DensityMap(nil, Bounds{MaxX: 1, MaxY: 1}, 0, 3))
	assert.Equal(t, "  \n", DensityMap(nil, Bounds{MaxX: 1, MaxY: 1}, 2, 1))
}

func TestFit(t *testing.T) {
	b := Fit(particlesAt(t, dynamo.Vec2{X: 0, Y: 10}, dynamo.Vec2{X: 100, Y: 10}))
	assert.InDelta(t, -10, b.MinX, 1e-12)
	assert.InDelta(t, 110, b.MaxX, 1e-12)
	assert.InDelta(t, 9.9, b.MinY, 1e-12)
	assert.InDelta(t, 10.1, b.MaxY, 1e-12)
}
