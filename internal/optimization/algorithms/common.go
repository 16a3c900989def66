// Package algorithms implements the concrete search strategies behind the
// optimization engine: gradient descent, a genetic algorithm, particle
// swarm, and an approximate Bayesian strategy. Each holds only its own
// tuning state; shared logic lives in optimization.EvalContext.
package algorithms

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
)

// newRNG builds the seedable random source every stochastic strategy uses.
// A zero seed falls back to the wall clock.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewSweepRNG exposes the seedable source for callers coordinating many
// runs, like the multi-objective weight sweep.
func NewSweepRNG(seed int64) *rand.Rand {
	return newRNG(seed)
}

// randomPoint draws a uniform point inside the bounds box.
func randomPoint(rng *rand.Rand, bounds [][2]float64) []float64 {
	x := make([]float64, len(bounds))
	for i, b := range bounds {
		x[i] = b[0] + rng.Float64()*(b[1]-b[0])
	}
	return x
}

// rollingWindow is the generation count the variance-based convergence
// test looks back over.
const rollingWindow = 10

// plateaued reports whether the best-score series has settled: the
// variance over the last rollingWindow entries is below tol. It needs at
// least a full window before it can fire.
func plateaued(bestScores []float64, tol float64) bool {
	if len(bestScores) < rollingWindow || tol <= 0 {
		return false
	}
	window := bestScores[len(bestScores)-rollingWindow:]
	return stat.Variance(window, nil) < tol
}

// latinHypercube generates n stratified samples across the bounds box.
func latinHypercube(rng *rand.Rand, n int, bounds [][2]float64) [][]float64 {
	nDims := len(bounds)
	samples := make([][]float64, n)
	for j := range samples {
		samples[j] = make([]float64, nDims)
	}

	for i := 0; i < nDims; i++ {
		// Stratified random samples, then shuffle the strata.
		samples1D := make([]float64, n)
		for j := 0; j < n; j++ {
			samples1D[j] = (float64(j) + rng.Float64()) / float64(n)
		}
		rng.Shuffle(n, func(k, l int) {
			samples1D[k], samples1D[l] = samples1D[l], samples1D[k]
		})

		min, max := bounds[i][0], bounds[i][1]
		for j := 0; j < n; j++ {
			samples[j][i] = min + samples1D[j]*(max-min)
		}
	}

	return samples
}

// squaredDistance is the Euclidean distance squared between two points.
func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// buildResult assembles the common parts of a run outcome: the final
// candidate re-evaluated for violations, with success meaning a feasible
// final candidate.
func buildResult(ec *optimization.EvalContext, best []float64, bestScore float64,
	iterations int, history []optimization.Snapshot) (*optimization.Result, error) {

	params := ec.ClampToBox(optimization.FromVector(best))
	violations, _, err := ec.Finalize(params)
	if err != nil {
		return nil, err
	}
	return &optimization.Result{
		Success:             len(violations) == 0,
		OptimizedParameters: params,
		ObjectiveValue:      bestScore,
		Violations:          violations,
		Iterations:          iterations,
		History:             history,
	}, nil
}
