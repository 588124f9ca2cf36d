package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid.Cols, cfg.Grid.Rows = 5, 5
	cfg.ChunkCount, cfg.ChunkSize = 1, 100
	cfg.Workers = 1
	return cfg
}

func pulling() Objective {
	return Objective{
		Metric: "mean_speed",
		Run:    sim.RunConfig{Frames: 30, Dt: 1.0 / 60},
		Input: sim.InputFunc(func(int, float64) sim.Input {
			return sim.Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 100, Y: 100}}
		}),
	}
}

func newSearch(t *testing.T, params []string, ranges [][]float64) (*GridSearch, *test.Hook) {
	t.Helper()
	g, err := NewGridSearch(params, ranges)
	require.NoError(t, err)
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	g.SetLogger(l)
	return g, hook
}

func TestGridSearch_MinimizesDrag(t *testing.T) {
	g, _ := newSearch(t, []string{"drag_coefficient"}, [][]float64{{0, 5, 50}})

	res, err := g.Search(context.Background(), testConfig(), pulling())
	require.NoError(t, err)
	assert.Len(t, res.Trials, 3)
	assert.Equal(t, 50.0, res.Best["drag_coefficient"])
	for _, tr := range res.Trials {
		assert.GreaterOrEqual(t, tr.Value, res.Value)
	}
}

func TestGridSearch_Maximize(t *testing.T) {
	g, _ := newSearch(t, []string{"drag_coefficient"}, [][]float64{{0, 5, 50}})

	obj := pulling()
	obj.Maximize = true
	res, err := g.Search(context.Background(), testConfig(), obj)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Best["drag_coefficient"])
}

func TestGridSearch_CartesianProduct(t *testing.T) {
	g, _ := newSearch(t,
		[]string{"drag_coefficient", "pointer_softening"},
		[][]float64{{0, 1}, {5, 10, 20}},
	)
	assert.Equal(t, 6, g.Size())

	res, err := g.Search(context.Background(), testConfig(), pulling())
	require.NoError(t, err)
	require.Len(t, res.Trials, 6)
	assert.Equal(t, map[string]float64{"drag_coefficient": 0, "pointer_softening": 5}, res.Trials[0].Params)
	assert.Equal(t, map[string]float64{"drag_coefficient": 1, "pointer_softening": 20}, res.Trials[5].Params)
}

func TestGridSearch_SkipsInvalidPoints(t *testing.T) {
	g, hook := newSearch(t, []string{"restitution_coefficient"}, [][]float64{{0.5, 2}})

	res, err := g.Search(context.Background(), testConfig(), pulling())
	require.NoError(t, err)
	require.Len(t, res.Trials, 2)
	assert.True(t, errors.Is(res.Trials[1].Err, dynamo.ErrParameterBounds))
	assert.Equal(t, 0.5, res.Best["restitution_coefficient"])

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "trial failed" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestGridSearch_AllPointsFail(t *testing.T) {
	g, _ := newSearch(t, []string{"mass"}, [][]float64{{0, -1}})

	_, err := g.Search(context.Background(), testConfig(), pulling())
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}

func TestGridSearch_Cancelled(t *testing.T) {
	g, _ := newSearch(t, []string{"drag_coefficient"}, [][]float64{{0, 1}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Search(ctx, testConfig(), pulling())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridSearch_UnknownMetric(t *testing.T) {
	g, _ := newSearch(t, []string{"gravity"}, [][]float64{{0}})

	obj := pulling()
	obj.Metric = "nope"
	_, err := g.Search(context.Background(), testConfig(), obj)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestNewGridSearch_Errors(t *testing.T) {
	_, err := NewGridSearch(nil, nil)
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"warp"}, [][]float64{{1}})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	_, err = NewGridSearch([]string{"gravity"}, [][]float64{{}})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestParams(t *testing.T) {
	assert.Contains(t, Params(), "drag_coefficient")
	assert.IsNonDecreasing(t, Params())
}
