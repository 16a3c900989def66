package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// tradeoffOracle rewards heat with power but charges for it: power rises
// with temperature while cost does too, so no single point wins every axis.
func tradeoffOracle(p prediction.Parameters) (optimization.Evaluation, error) {
	power := 200 + 30*(p.Temperature-20)
	eff := 40 + 2*(p.PH-6)*10
	cost := 8 + 0.9*(p.Temperature-20)
	return optimization.Evaluation{Power: power, Efficiency: eff, Cost: cost, HasCost: true}, nil
}

func TestRunMultiObjectiveProducesNonDominatedFront(t *testing.T) {
	e := New(nil, nil)
	res, err := e.RunMultiObjective(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MultiObjective},
		Constraints: labBox(),
		Params: optimization.Params{
			Algorithm:     optimization.GradientDescent,
			MaxIterations: 40,
			Tolerance:     1e-4,
			RandomSeed:    23,
		},
		Oracle: tradeoffOracle,
	}, MultiObjectiveConfig{Samples: 8, Workers: 3})
	require.NoError(t, err)

	require.NotEmpty(t, res.ParetoFront)
	assert.Equal(t, 8, res.Iterations)
	assert.True(t, res.Success)

	// Pairwise non-domination is the defining property of the front.
	for i, a := range res.ParetoFront {
		for j, b := range res.ParetoFront {
			if i == j {
				continue
			}
			assert.False(t, dominates(b, a),
				"front member %d dominates member %d", j, i)
		}
	}

	// The reported optimum is the compromise member of the front.
	found := false
	for _, p := range res.ParetoFront {
		if p.Parameters == res.OptimizedParameters {
			found = true
			assert.Equal(t, -p.Power, res.ObjectiveValue)
		}
	}
	assert.True(t, found, "compromise must come from the front")

	// Each front member records the weights that produced it.
	for _, p := range res.ParetoFront {
		sum := p.Weights.Power + p.Weights.Efficiency + p.Weights.Cost
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestRunMultiObjectiveIsReproducibleWithSeed(t *testing.T) {
	run := func() *optimization.Result {
		e := New(nil, nil)
		res, err := e.RunMultiObjective(context.Background(), Request{
			Objective:   optimization.Objective{Kind: optimization.MultiObjective},
			Constraints: labBox(),
			Params: optimization.Params{
				Algorithm:     optimization.GradientDescent,
				MaxIterations: 20,
				RandomSeed:    99,
			},
			Oracle: tradeoffOracle,
		}, MultiObjectiveConfig{Samples: 5, Workers: 5})
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.OptimizedParameters, b.OptimizedParameters)
	assert.Equal(t, len(a.ParetoFront), len(b.ParetoFront))
}

func TestRunMultiObjectivePropagatesOracleFailure(t *testing.T) {
	e := New(nil, nil)
	_, err := e.RunMultiObjective(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MultiObjective},
		Constraints: labBox(),
		Params:      optimization.Params{Algorithm: optimization.GradientDescent, MaxIterations: 10},
		Oracle: func(prediction.Parameters) (optimization.Evaluation, error) {
			return optimization.Evaluation{}, assert.AnError
		},
	}, MultiObjectiveConfig{Samples: 4, Workers: 2})
	require.Error(t, err)
}

func TestRunMultiObjectiveReportsExternalCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(nil, nil)
	_, err := e.RunMultiObjective(ctx, Request{
		Objective:   optimization.Objective{Kind: optimization.MultiObjective},
		Constraints: labBox(),
		Params:      optimization.Params{Algorithm: optimization.GradientDescent, MaxIterations: 10},
		Oracle:      tradeoffOracle,
	}, MultiObjectiveConfig{Samples: 3, Workers: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDominates(t *testing.T) {
	a := optimization.ParetoPoint{Power: 100, Efficiency: 50, Cost: 10}
	better := optimization.ParetoPoint{Power: 120, Efficiency: 50, Cost: 10}
	worse := optimization.ParetoPoint{Power: 90, Efficiency: 40, Cost: 12}
	mixed := optimization.ParetoPoint{Power: 120, Efficiency: 40, Cost: 10}

	assert.True(t, dominates(better, a))
	assert.False(t, dominates(a, better))
	assert.False(t, dominates(worse, a))
	assert.False(t, dominates(mixed, a), "trading one axis for another is not domination")
	assert.False(t, dominates(a, a), "a point never dominates itself")
}

func TestParetoFilter(t *testing.T) {
	points := []optimization.ParetoPoint{
		{Power: 100, Efficiency: 50, Cost: 10},
		{Power: 120, Efficiency: 50, Cost: 10}, // dominates the first
		{Power: 80, Efficiency: 70, Cost: 12},  // different tradeoff, survives
	}
	front := paretoFilter(points)
	require.Len(t, front, 2)
	assert.Equal(t, 120.0, front[0].Power)
	assert.Equal(t, 80.0, front[1].Power)
}

func TestBestCompromisePicksBalancedPoint(t *testing.T) {
	front := []optimization.ParetoPoint{
		{Power: 1000, Efficiency: 10, Cost: 100}, // extreme power
		{Power: 10, Efficiency: 90, Cost: 5},     // extreme economy
		{Power: 900, Efficiency: 80, Cost: 20},   // near-ideal on all axes
	}
	best := bestCompromise(front)
	assert.Equal(t, 900.0, best.Power)
}

func TestBestCompromiseSinglePoint(t *testing.T) {
	only := optimization.ParetoPoint{Power: 5, Efficiency: 5, Cost: 5}
	assert.Equal(t, only, bestCompromise([]optimization.ParetoPoint{only}))
}
