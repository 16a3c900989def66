package prediction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
	apperrors "github.com/samfrons/Messai.io-sub005/internal/errors"
)

const testDevice = "mfc-membrane-lab"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(EngineConfig{Catalog: catalog.Default()})
	require.NoError(t, err)
	return e
}

func nominalParameters() Parameters {
	return Parameters{
		Temperature:            30,
		PH:                     7,
		FlowRate:               60,
		MixingSpeed:            120,
		ElectrodeVoltage:       100,
		SubstrateConcentration: 2,
	}
}

func TestPredictUnknownDeviceIsHardFailure(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Predict(Input{DeviceID: "bogus", Parameters: nominalParameters()})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, catalog.ErrUnknownDevice))
}

func TestPredictOutputsFiniteAndNonNegative(t *testing.T) {
	e := newTestEngine(t)

	// Sweep a coarse grid across the admissible box.
	for _, temp := range []float64{15, 25, 30, 38, 45} {
		for _, ph := range []float64{5.5, 6.5, 7, 8, 8.5} {
			for _, flow := range []float64{5, 60, 250} {
				in := Input{
					DeviceID: testDevice,
					Parameters: Parameters{
						Temperature:            temp,
						PH:                     ph,
						FlowRate:               flow,
						MixingSpeed:            120,
						ElectrodeVoltage:       100,
						SubstrateConcentration: 2,
					},
					Fidelity: Advanced,
				}
				res, err := e.Predict(in)
				require.NoError(t, err)

				for name, v := range map[string]float64{
					"power":      res.PowerDensity,
					"current":    res.CurrentDensity,
					"efficiency": res.Efficiency,
					"confidence": res.Confidence,
				} {
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
						"%s not finite at T=%v pH=%v flow=%v", name, temp, ph, flow)
				}
				assert.GreaterOrEqual(t, res.PowerDensity, 0.0)
				assert.GreaterOrEqual(t, res.Efficiency, 0.0)
				assert.LessOrEqual(t, res.Efficiency, 100.0)
			}
		}
	}
}

func TestConfidenceMonotoneInOutOfRangeCount(t *testing.T) {
	e := newTestEngine(t)

	inRange := nominalParameters()
	oneOut := inRange
	oneOut.Temperature = 80 // outside [15, 45]
	twoOut := oneOut
	twoOut.PH = 12 // outside [5.5, 8.5]
	threeOut := twoOut
	threeOut.FlowRate = 5000

	prev := math.Inf(1)
	for _, p := range []Parameters{inRange, oneOut, twoOut, threeOut} {
		res, err := e.Predict(Input{DeviceID: testDevice, Parameters: p})
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Confidence, prev,
			"confidence must not rise as parameters leave their ranges")
		prev = res.Confidence
	}
}

func TestFidelityHierarchyIsAdditive(t *testing.T) {
	e := newTestEngine(t)
	p := nominalParameters()

	basic, err := e.Predict(Input{DeviceID: testDevice, Parameters: p, Fidelity: Basic})
	require.NoError(t, err)
	inter, err := e.Predict(Input{DeviceID: testDevice, Parameters: p, Fidelity: Intermediate})
	require.NoError(t, err)
	adv, err := e.Predict(Input{DeviceID: testDevice, Parameters: p, Fidelity: Advanced})
	require.NoError(t, err)

	assert.Nil(t, basic.Intermediate)
	assert.Nil(t, basic.Advanced)
	require.NotNil(t, inter.Intermediate)
	assert.Nil(t, inter.Advanced)
	require.NotNil(t, adv.Intermediate)
	require.NotNil(t, adv.Advanced)

	// Shared physical fields are recomputed identically at every level.
	// Confidence is excluded: it carries an explicit fidelity bonus.
	for _, higher := range []*Result{inter, adv} {
		assert.Equal(t, basic.PowerDensity, higher.PowerDensity)
		assert.Equal(t, basic.CurrentDensity, higher.CurrentDensity)
		assert.Equal(t, basic.Efficiency, higher.Efficiency)
		assert.Equal(t, basic.Status, higher.Status)
		assert.Equal(t, basic.Warnings, higher.Warnings)
	}
	assert.Equal(t, inter.Intermediate, adv.Intermediate)
}

func TestCacheIdempotenceAndExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(5000, 0)}
	e, err := NewEngine(EngineConfig{
		Catalog:  catalog.Default(),
		CacheTTL: time.Minute,
		Clock:    clock,
	})
	require.NoError(t, err)

	in := Input{DeviceID: testDevice, Parameters: nominalParameters(), Fidelity: Intermediate}

	first, err := e.Predict(in)
	require.NoError(t, err)
	second, err := e.Predict(in)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical input inside the window must hit the cache")

	clock.advance(2 * time.Minute)
	third, err := e.Predict(in)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "expired entries are recomputed")
	assert.Equal(t, first.PowerDensity, third.PowerDensity)
}

func TestOperationalStatusClassification(t *testing.T) {
	e := newTestEngine(t)
	// Device optima: T 30+-2.5, pH 7.0+-0.3, ranges [15,45] and [5.5,8.5].
	tests := []struct {
		name string
		temp float64
		ph   float64
		want OperationalStatus
	}{
		{"both at optimum", 30, 7, StatusOptimal},
		{"both inside tolerance", 31.5, 7.2, StatusOptimal},
		{"in range outside tolerance", 40, 8, StatusGood},
		{"only temperature in range", 30, 10, StatusWarning},
		{"only ph in range", 60, 7, StatusWarning},
		{"neither in range", 60, 10, StatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := nominalParameters()
			p.Temperature = tt.temp
			p.PH = tt.ph
			res, err := e.Predict(Input{DeviceID: testDevice, Parameters: p})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestOutOfRangeWarnsButNeverRejects(t *testing.T) {
	e := newTestEngine(t)
	p := nominalParameters()
	p.Temperature = 90
	p.SubstrateConcentration = 50

	res, err := e.Predict(Input{DeviceID: testDevice, Parameters: p})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(res.Warnings), 2)
}

func TestDeviceSpecificWarnings(t *testing.T) {
	e := newTestEngine(t)

	p := nominalParameters()
	p.PH = 8.2 // in range, outside membrane tolerance
	res, err := e.Predict(Input{DeviceID: "mfc-membrane-lab", Parameters: p})
	require.NoError(t, err)
	found := false
	for _, w := range res.Warnings {
		if w == "membrane designs are pH sensitive; drift past tolerance accelerates fouling" {
			found = true
		}
	}
	assert.True(t, found, "expected membrane pH warning, got %v", res.Warnings)

	hot := nominalParameters()
	hot.Temperature = 33 // photobioreactor optimum is 26 +- 2
	res, err = e.Predict(Input{DeviceID: "photo-algal-lab", Parameters: hot})
	require.NoError(t, err)
	found = false
	for _, w := range res.Warnings {
		if w == "photobioreactor cultures degrade above optimal temperature; increase cooling" {
			found = true
		}
	}
	assert.True(t, found, "expected photobioreactor heat warning, got %v", res.Warnings)
}

func TestAdvancedBlocksShape(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.Predict(Input{
		DeviceID:   testDevice,
		Parameters: nominalParameters(),
		Fidelity:   Advanced,
	})
	require.NoError(t, err)
	adv := res.Advanced
	require.NotNil(t, adv)

	assert.Len(t, adv.Electrochemistry.CurrentDistribution, profilePoints)
	assert.Len(t, adv.FluidDynamics.VelocityProfile, profilePoints)
	assert.Len(t, adv.FluidDynamics.ResidenceTimeDist, profilePoints)
	assert.Len(t, adv.Microbiology.ViabilityProfile, profilePoints)

	// The current distribution preserves the mean current density.
	sum := 0.0
	for _, j := range adv.Electrochemistry.CurrentDistribution {
		sum += j
	}
	assert.InDelta(t, res.CurrentDensity, sum/profilePoints, 1e-6*math.Abs(res.CurrentDensity)+1e-9)

	// Species abundances are a distribution.
	total := 0.0
	for _, a := range adv.Microbiology.SpeciesAbundance {
		assert.GreaterOrEqual(t, a, 0.0)
		total += a
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// Overpotentials are non-negative losses.
	assert.GreaterOrEqual(t, adv.Electrochemistry.ActivationOverpotential, 0.0)
	assert.GreaterOrEqual(t, adv.Electrochemistry.ConcentrationOverpotential, 0.0)
	assert.GreaterOrEqual(t, adv.Electrochemistry.OhmicOverpotential, 0.0)

	// Envelopes stay inside the catalog ranges.
	dev, err := catalog.Default().Lookup(testDevice)
	require.NoError(t, err)
	env := adv.Advisory.OperatingEnvelopes["temperature"]
	assert.GreaterOrEqual(t, env[0], dev.TempRange.Min)
	assert.LessOrEqual(t, env[1], dev.TempRange.Max)
	assert.LessOrEqual(t, env[0], env[1])

	assert.Len(t, adv.Advisory.SensitivityRanking, 6)
	assert.NotEmpty(t, adv.Advisory.Recommendations)
}

func TestExtensionsAffectMassTransferNotBasicFields(t *testing.T) {
	e := newTestEngine(t)
	oxygen := 6.0

	plain, err := e.Predict(Input{
		DeviceID: testDevice, Parameters: nominalParameters(), Fidelity: Intermediate,
	})
	require.NoError(t, err)
	withExt, err := e.Predict(Input{
		DeviceID:   testDevice,
		Parameters: nominalParameters(),
		Extensions: Extensions{OxygenLevel: &oxygen},
		Fidelity:   Intermediate,
	})
	require.NoError(t, err)

	assert.NotEqual(t, plain.Intermediate.MassTransfer.OxygenTransferRate,
		withExt.Intermediate.MassTransfer.OxygenTransferRate)
	assert.Equal(t, plain.PowerDensity, withExt.PowerDensity)
}
