package optimization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

func testBox() Constraints {
	return Constraints{
		Temperature:            Interval{Min: 20, Max: 40},
		PH:                     Interval{Min: 6, Max: 8},
		FlowRate:               Interval{Min: 10, Max: 200},
		MixingSpeed:            Interval{Min: 0, Max: 300},
		ElectrodeVoltage:       Interval{Min: 0, Max: 200},
		SubstrateConcentration: Interval{Min: 0.1, Max: 5},
	}
}

func midPoint() prediction.Parameters {
	return prediction.Parameters{
		Temperature: 30, PH: 7, FlowRate: 105,
		MixingSpeed: 150, ElectrodeVoltage: 100, SubstrateConcentration: 2.55,
	}
}

func constantOracle(ev Evaluation) Oracle {
	return func(prediction.Parameters) (Evaluation, error) { return ev, nil }
}

func TestScalarizePerObjectiveKind(t *testing.T) {
	ev := Evaluation{Power: 500, Efficiency: 60, Cost: 25, HasCost: true}
	p := midPoint()

	tests := []struct {
		name string
		obj  Objective
		want float64
	}{
		{"maximize power", Objective{Kind: MaximizePower}, -500},
		{"maximize efficiency", Objective{Kind: MaximizeEfficiency}, -60},
		{"minimize cost", Objective{Kind: MinimizeCost}, 25},
		{"maximize durability", Objective{Kind: MaximizeDurability}, -EstimateDurability(p)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := EvalContext{Objective: tt.obj, Constraints: testBox(), Oracle: constantOracle(ev)}
			got, err := ec.Score(p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestScalarizeMultiObjectiveBlend(t *testing.T) {
	ev := Evaluation{Power: 800, Efficiency: 50, Cost: 20, HasCost: true}
	ec := EvalContext{
		Objective: Objective{
			Kind:    MultiObjective,
			Weights: Weights{Power: 2, Efficiency: 1, Cost: 1}, // normalizes to 0.5/0.25/0.25
		},
		Constraints: testBox(),
		Oracle:      constantOracle(ev),
	}
	got, err := ec.Score(midPoint())
	require.NoError(t, err)
	want := -(0.5*800/1000.0 + 0.25*50/100.0) + 0.25*20/100.0
	assert.InDelta(t, want, got, 1e-12)
}

func TestScalarizeFallsBackToEstimatedCost(t *testing.T) {
	p := midPoint()
	ec := EvalContext{
		Objective:   Objective{Kind: MinimizeCost},
		Constraints: testBox(),
		Oracle:      constantOracle(Evaluation{Power: 100, Efficiency: 40}),
	}
	got, err := ec.Score(p)
	require.NoError(t, err)
	assert.InDelta(t, EstimateCost(p), got, 1e-12)
}

func TestScoreWrapsOracleFailure(t *testing.T) {
	boom := errors.New("sensor offline")
	ec := EvalContext{
		Objective:   Objective{Kind: MaximizePower},
		Constraints: testBox(),
		Oracle:      func(prediction.Parameters) (Evaluation, error) { return Evaluation{}, boom },
	}
	_, err := ec.Score(midPoint())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	_, ok := IsOptimizationError(err)
	assert.True(t, ok)
}

func TestEstimateCostComponents(t *testing.T) {
	// At ambient temperature with everything else at zero only the base
	// daily cost remains.
	quiet := prediction.Parameters{Temperature: 20}
	assert.InDelta(t, 10.0, EstimateCost(quiet), 1e-12)

	// Each knob raises the cost monotonically.
	hot := quiet
	hot.Temperature = 35
	assert.Greater(t, EstimateCost(hot), EstimateCost(quiet))

	stirred := quiet
	stirred.MixingSpeed = 300
	assert.Greater(t, EstimateCost(stirred), EstimateCost(quiet))

	powered := quiet
	powered.ElectrodeVoltage = 200
	assert.Greater(t, EstimateCost(powered), EstimateCost(quiet))

	fed := quiet
	fed.FlowRate = 100
	fed.SubstrateConcentration = 3
	assert.Greater(t, EstimateCost(fed), EstimateCost(quiet))
}

func TestEstimateDurabilityDecaysWithStress(t *testing.T) {
	gentle := prediction.Parameters{Temperature: 30, PH: 7}
	assert.InDelta(t, 20000.0, EstimateDurability(gentle), 1e-9)

	harsh := prediction.Parameters{
		Temperature: 45, PH: 5, ElectrodeVoltage: 300, MixingSpeed: 500,
	}
	assert.Less(t, EstimateDurability(harsh), EstimateDurability(gentle))
	assert.Greater(t, EstimateDurability(harsh), 0.0)
}

func TestClampToBox(t *testing.T) {
	ec := EvalContext{Constraints: testBox()}
	wild := prediction.Parameters{
		Temperature: -10, PH: 14, FlowRate: 50,
		MixingSpeed: 1000, ElectrodeVoltage: -5, SubstrateConcentration: 2,
	}
	got := ec.ClampToBox(wild)
	assert.Equal(t, 20.0, got.Temperature)
	assert.Equal(t, 8.0, got.PH)
	assert.Equal(t, 50.0, got.FlowRate)
	assert.Equal(t, 300.0, got.MixingSpeed)
	assert.Equal(t, 0.0, got.ElectrodeVoltage)
	assert.Equal(t, 2.0, got.SubstrateConcentration)
}

func TestCheckFinalBoundIsLegal(t *testing.T) {
	ec := EvalContext{Objective: Objective{Kind: MinimizeCost}, Constraints: testBox()}
	onBound := prediction.Parameters{
		Temperature: 20, PH: 8, FlowRate: 200,
		MixingSpeed: 0, ElectrodeVoltage: 0, SubstrateConcentration: 0.1,
	}
	v := ec.CheckFinal(onBound, Evaluation{Power: 100, Efficiency: 40, Cost: 12, HasCost: true})
	assert.Empty(t, v, "a candidate exactly on the box boundary must pass")
}

func TestCheckFinalReportsEveryViolation(t *testing.T) {
	maxCost := 15.0
	minPower := 400.0
	ec := EvalContext{
		Objective: Objective{
			Kind:    MinimizeCost,
			Targets: Targets{MaxCost: &maxCost, MinPowerDensity: &minPower},
		},
		Constraints: testBox(),
	}
	bad := midPoint()
	bad.Temperature = 50 // outside the box
	v := ec.CheckFinal(bad, Evaluation{Power: 300, Efficiency: 40, Cost: 22, HasCost: true})
	assert.Len(t, v, 3) // box breach, cost target, power target
}

func TestCheckFinalVoltagePinnedAtUpperBound(t *testing.T) {
	pinned := midPoint()
	pinned.ElectrodeVoltage = 200 // exactly the declared upper bound

	ec := EvalContext{Objective: Objective{Kind: MinimizeCost}, Constraints: testBox()}
	v := ec.CheckFinal(pinned, Evaluation{Power: 300, Efficiency: 45, Cost: 14, HasCost: true})
	assert.Empty(t, v, "hitting a bound is legal")

	// Exceeding an explicit cost target is not.
	maxCost := 12.0
	ec.Objective.Targets.MaxCost = &maxCost
	v = ec.CheckFinal(pinned, Evaluation{Power: 300, Efficiency: 45, Cost: 14, HasCost: true})
	require.Len(t, v, 1)
	assert.Contains(t, v[0], "exceeds target")
}

func TestCheckFinalMaterialCostBound(t *testing.T) {
	bound := 18.0
	c := testBox()
	c.MaxMaterialCost = &bound
	ec := EvalContext{Objective: Objective{Kind: MaximizePower}, Constraints: c}

	v := ec.CheckFinal(midPoint(), Evaluation{Power: 500, Efficiency: 50, Cost: 25, HasCost: true})
	require.Len(t, v, 1)
	assert.Contains(t, v[0], "material cost bound")
}

func TestVectorRoundTripAndBounds(t *testing.T) {
	p := midPoint()
	assert.Equal(t, p, FromVector(ToVector(p)))

	ec := EvalContext{Constraints: testBox()}
	b := ec.Bounds()
	require.Len(t, b, NumParams)
	assert.Equal(t, [2]float64{20, 40}, b[0])
	assert.Equal(t, [2]float64{0.1, 5}, b[5])

	ivs := ec.Intervals()
	assert.Equal(t, Interval{Min: 6, Max: 8}, ivs[1])
}

func TestScoreVectorClampsFirst(t *testing.T) {
	var seen prediction.Parameters
	ec := EvalContext{
		Objective:   Objective{Kind: MaximizePower},
		Constraints: testBox(),
		Oracle: func(p prediction.Parameters) (Evaluation, error) {
			seen = p
			return Evaluation{Power: 1}, nil
		},
	}
	_, err := ec.ScoreVector([]float64{-100, 7, 50, 150, 100, 2})
	require.NoError(t, err)
	assert.Equal(t, 20.0, seen.Temperature, "out-of-box vector must be clamped before the oracle sees it")
}

func TestWeightsNormalize(t *testing.T) {
	w := Weights{Power: 2, Efficiency: 1, Cost: 1}.Normalize()
	assert.InDelta(t, 0.5, w.Power, 1e-12)
	assert.InDelta(t, 0.25, w.Efficiency, 1e-12)
	assert.InDelta(t, 0.25, w.Cost, 1e-12)

	even := Weights{}.Normalize()
	assert.InDelta(t, 1.0/3, even.Power, 1e-12)
	assert.InDelta(t, 1.0/3, even.Efficiency, 1e-12)
	assert.InDelta(t, 1.0/3, even.Cost, 1e-12)
}

func TestFromPredictionCarriesEconomicsCost(t *testing.T) {
	oracle := FromPrediction(func(prediction.Parameters) (*prediction.Result, error) {
		return &prediction.Result{
			PowerDensity: 640,
			Efficiency:   58,
			Intermediate: &prediction.IntermediateResult{
				Economics: prediction.Economics{OperatingCost: 7.5},
			},
		}, nil
	})
	ev, err := oracle(midPoint())
	require.NoError(t, err)
	assert.Equal(t, 640.0, ev.Power)
	assert.True(t, ev.HasCost)
	assert.Equal(t, 7.5, ev.Cost)

	basicOnly := FromPrediction(func(prediction.Parameters) (*prediction.Result, error) {
		return &prediction.Result{PowerDensity: 100}, nil
	})
	ev, err = basicOnly(midPoint())
	require.NoError(t, err)
	assert.False(t, ev.HasCost)
}
