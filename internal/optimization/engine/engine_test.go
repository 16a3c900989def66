package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

func labBox() optimization.Constraints {
	return optimization.Constraints{
		Temperature:            optimization.Interval{Min: 20, Max: 40},
		PH:                     optimization.Interval{Min: 6, Max: 8},
		FlowRate:               optimization.Interval{Min: 10, Max: 200},
		MixingSpeed:            optimization.Interval{Min: 0, Max: 300},
		ElectrodeVoltage:       optimization.Interval{Min: 0, Max: 200},
		SubstrateConcentration: optimization.Interval{Min: 0.1, Max: 5},
	}
}

func flatOracle(prediction.Parameters) (optimization.Evaluation, error) {
	return optimization.Evaluation{Power: 100, Efficiency: 50}, nil
}

func predictionOracle(t *testing.T, fidelity prediction.Fidelity) optimization.Oracle {
	t.Helper()
	pe, err := prediction.NewEngine(prediction.EngineConfig{Catalog: catalog.Default()})
	require.NoError(t, err)
	return optimization.FromPrediction(pe.Evaluate("mfc-membrane-lab", fidelity))
}

func TestRunRequiresOracle(t *testing.T) {
	e := New(nil, nil)
	_, err := e.Run(context.Background(), Request{Constraints: labBox()})
	require.Error(t, err)
	_, ok := optimization.IsOptimizationError(err)
	assert.True(t, ok)
}

func TestRunAttributesStrategyFailure(t *testing.T) {
	e := New(nil, nil)
	_, err := e.Run(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: labBox(),
		Params:      optimization.Params{Algorithm: optimization.GradientDescent, MaxIterations: 5},
		Oracle: func(prediction.Parameters) (optimization.Evaluation, error) {
			return optimization.Evaluation{}, assert.AnError
		},
	})
	require.Error(t, err)
	oe, ok := optimization.IsOptimizationError(err)
	require.True(t, ok)
	assert.Equal(t, "gradient-descent", oe.Component)
	// The underlying cause stays in the chain.
	assert.True(t, errors.Is(err, assert.AnError))
}

func TestRunDefaultsToMidBoxGuess(t *testing.T) {
	e := New(nil, nil)
	// A flat surface never steps, so the result exposes the default guess.
	res, err := e.Run(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: labBox(),
		Params:      optimization.Params{Algorithm: optimization.GradientDescent},
		Oracle:      flatOracle,
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.OptimizedParameters.Temperature)
	assert.Equal(t, 7.0, res.OptimizedParameters.PH)
	assert.Equal(t, 105.0, res.OptimizedParameters.FlowRate)
	assert.Equal(t, 150.0, res.OptimizedParameters.MixingSpeed)
	assert.Equal(t, 100.0, res.OptimizedParameters.ElectrodeVoltage)
	assert.Equal(t, 2.55, res.OptimizedParameters.SubstrateConcentration)
}

func TestRunClampsCallerGuess(t *testing.T) {
	e := New(nil, nil)
	guess := prediction.Parameters{
		Temperature: 90, PH: 7, FlowRate: 50,
		MixingSpeed: 100, ElectrodeVoltage: 50, SubstrateConcentration: 2,
	}
	res, err := e.Run(context.Background(), Request{
		Objective:    optimization.Objective{Kind: optimization.MaximizePower},
		Constraints:  labBox(),
		Params:       optimization.Params{Algorithm: optimization.GradientDescent},
		Oracle:       flatOracle,
		InitialGuess: &guess,
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, res.OptimizedParameters.Temperature)
}

func TestRunAttachesSensitivitiesExceptForGenetic(t *testing.T) {
	e := New(nil, nil)
	base := Request{
		Objective:   optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: labBox(),
		Oracle:      flatOracle,
	}

	gd := base
	gd.Params = optimization.Params{Algorithm: optimization.GradientDescent, MaxIterations: 5}
	res, err := e.Run(context.Background(), gd)
	require.NoError(t, err)
	require.NotNil(t, res.Sensitivities)
	assert.Len(t, res.Sensitivities, optimization.NumParams)
	for name, s := range res.Sensitivities {
		assert.LessOrEqual(t, s.StableRange.Min, s.StableRange.Max, "parameter %s", name)
	}

	ga := base
	ga.Params = optimization.Params{
		Algorithm: optimization.GeneticAlgorithm, MaxIterations: 5, PopulationSize: 10, RandomSeed: 1,
	}
	res, err = e.Run(context.Background(), ga)
	require.NoError(t, err)
	assert.Nil(t, res.Sensitivities)
}

func TestSimulatedAnnealingFallsBackToGenetic(t *testing.T) {
	e := New(nil, nil)
	res, err := e.Run(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: labBox(),
		Params: optimization.Params{
			Algorithm: optimization.SimulatedAnnealing, MaxIterations: 5, PopulationSize: 10, RandomSeed: 1,
		},
		Oracle: flatOracle,
	})
	require.NoError(t, err)
	// The fallback runs as the genetic algorithm, which skips sensitivities.
	assert.Nil(t, res.Sensitivities)
}

func TestGradientDescentOnPredictionOracle(t *testing.T) {
	e := New(nil, nil)
	res, err := e.Run(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: labBox(),
		Params: optimization.Params{
			Algorithm:     optimization.GradientDescent,
			MaxIterations: 100,
			Tolerance:     1e-3,
		},
		Oracle: predictionOracle(t, prediction.Basic),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Violations)

	// The physics peaks at the catalog optimum (30 degC, pH 7), which the
	// mid-box default guess already sits on.
	assert.InDelta(t, 30.0, res.OptimizedParameters.Temperature, 0.5)
	assert.InDelta(t, 7.0, res.OptimizedParameters.PH, 0.2)

	require.NotNil(t, res.Sensitivities)
	ts := res.Sensitivities["temperature"]
	assert.True(t, ts.StableRange.Contains(res.OptimizedParameters.Temperature),
		"stable range must cover the optimum itself")
}

func TestMinimizeCostDrivesTowardCheapCorner(t *testing.T) {
	e := New(nil, nil)
	res, err := e.Run(context.Background(), Request{
		Objective:   optimization.Objective{Kind: optimization.MinimizeCost},
		Constraints: labBox(),
		Params: optimization.Params{
			Algorithm:      optimization.ParticleSwarm,
			MaxIterations:  150,
			Tolerance:      1e-9,
			PopulationSize: 30,
			RandomSeed:     17,
		},
		Oracle: flatOracle, // no cost reported, the analytic estimator applies
	})
	require.NoError(t, err)
	assert.True(t, res.Success, "bound-hugging candidates are feasible: %v", res.Violations)

	// The analytic cost floor inside this box is just above the base cost.
	assert.Less(t, res.ObjectiveValue, 11.0)
	assert.Less(t, res.OptimizedParameters.MixingSpeed, 60.0)
	assert.Less(t, res.OptimizedParameters.ElectrodeVoltage, 80.0)
}

func TestRunReportsTargetViolations(t *testing.T) {
	minPower := 1e6 // unattainable
	e := New(nil, nil)
	res, err := e.Run(context.Background(), Request{
		Objective: optimization.Objective{
			Kind:    optimization.MaximizePower,
			Targets: optimization.Targets{MinPowerDensity: &minPower},
		},
		Constraints: labBox(),
		Params:      optimization.Params{Algorithm: optimization.GradientDescent, MaxIterations: 5},
		Oracle:      flatOracle,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Violations, 1)
	assert.Contains(t, res.Violations[0], "below target")
}
