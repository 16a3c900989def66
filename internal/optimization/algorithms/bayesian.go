package algorithms

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/optimization/acquisition"
	"github.com/samfrons/Messai.io-sub005/internal/optimization/kernels"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

const (
	defaultInitialSamples = 10
	proxyLengthScale      = 0.2 // in box-normalized coordinates
	acquisitionXi         = 0.01
	ucbKappa              = 2.0
)

// acquisitionScorer scores a candidate from the proxy mean and uncertainty.
type acquisitionScorer interface {
	Compute(mu, sigma float64) float64
}

// BayesianOptimizer is the approximate Bayesian strategy. Its surrogate is
// a nearest-neighbor proxy: the predicted mean at a candidate is the value
// of the closest observed point, and the uncertainty grows with kernel
// distance from it. This is a deliberate simplification, not a calibrated
// Gaussian-Process model.
type BayesianOptimizer struct {
	ec             *optimization.EvalContext
	maxIterations  int
	tolerance      float64
	initialSamples int
	kernel         kernels.Kernel
	scorer         acquisitionScorer
	ei             *acquisition.ExpectedImprovement
	rng            *rand.Rand

	observedX [][]float64
	observedY []float64
}

// NewBayesian creates the strategy with the shared evaluation context and
// run parameters.
func NewBayesian(ec *optimization.EvalContext, params optimization.Params) *BayesianOptimizer {
	maxIter := params.MaxIterations
	if maxIter < 1 {
		maxIter = 50
	}

	b := &BayesianOptimizer{
		ec:             ec,
		maxIterations:  maxIter,
		tolerance:      params.Tolerance,
		initialSamples: defaultInitialSamples,
		kernel:         kernels.NewRBFKernel(proxyLengthScale, 1.0),
		rng:            newRNG(params.RandomSeed),
	}

	switch params.Acquisition {
	case optimization.UpperConfidenceBound:
		b.scorer = acquisition.NewUpperConfidenceBound(ucbKappa)
	default:
		b.ei = acquisition.NewExpectedImprovement(math.Inf(1), acquisitionXi)
		b.scorer = b.ei
	}
	return b
}

// Optimize seeds the observation set with stratified samples, then
// repeatedly proposes the acquisition maximizer until the budget runs out
// or improvement plateaus.
func (b *BayesianOptimizer) Optimize(ctx context.Context, initial prediction.Parameters) (*optimization.Result, error) {
	bounds := b.ec.Bounds()

	seeds := latinHypercube(b.rng, b.initialSamples, bounds)
	seeds[0] = optimization.ToVector(b.ec.ClampToBox(initial))

	var (
		best      []float64
		bestScore = math.Inf(1)
		history   []optimization.Snapshot
	)
	record := func(iter int, x []float64, y float64) {
		b.observedX = append(b.observedX, append([]float64(nil), x...))
		b.observedY = append(b.observedY, y)
		if y < bestScore {
			bestScore = y
			best = append([]float64(nil), x...)
		}
		history = append(history, optimization.Snapshot{
			Iteration:  iter,
			Parameters: optimization.FromVector(x),
			Objective:  y,
		})
	}

	for i, x := range seeds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		y, err := b.ec.ScoreVector(x)
		if err != nil {
			return nil, err
		}
		record(i, x, y)
	}

	bestSeries := []float64{bestScore}
	iterations := 0
	for iterations < b.maxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if b.ei != nil {
			b.ei.UpdateBest(bestScore)
		}
		next := b.maximizeAcquisition(bounds, best)

		y, err := b.ec.ScoreVector(next)
		if err != nil {
			return nil, err
		}
		iterations++
		record(b.initialSamples+iterations-1, next, y)

		bestSeries = append(bestSeries, bestScore)
		if plateaued(bestSeries, b.tolerance) {
			break
		}
	}

	return buildResult(b.ec, best, bestScore, iterations, history)
}

// proxy returns the nearest-neighbor mean and the distance-based
// uncertainty at x. Distances are measured in box-normalized coordinates
// so every parameter counts equally.
func (b *BayesianOptimizer) proxy(x []float64, bounds [][2]float64) (mu, sigma float64) {
	xn := normalize(x, bounds)

	bestD := math.Inf(1)
	nearest := 0
	for i, ox := range b.observedX {
		d := squaredDistance(xn, normalize(ox, bounds))
		if d < bestD {
			bestD = d
			nearest = i
		}
	}

	mu = b.observedY[nearest]

	// Correlation decays with kernel distance; what is left of the
	// observed spread becomes the uncertainty term.
	corr := b.kernel.Eval(xn, normalize(b.observedX[nearest], bounds))
	spread := math.Sqrt(stat.Variance(b.observedY, nil))
	if spread < 1e-12 {
		spread = 1e-12
	}
	sigma = spread * math.Sqrt(math.Max(0, 1.0-corr))
	return mu, sigma
}

// maximizeAcquisition finds the next candidate by multi-start Nelder-Mead
// over the acquisition score.
func (b *BayesianOptimizer) maximizeAcquisition(bounds [][2]float64, best []float64) []float64 {
	nDims := len(bounds)

	objective := func(x []float64) float64 {
		// Keep the simplex inside the box.
		for i := range x {
			x[i] = math.Max(bounds[i][0], math.Min(x[i], bounds[i][1]))
		}
		mu, sigma := b.proxy(x, bounds)
		// Negate because gonum minimizes.
		return -b.scorer.Compute(mu, sigma)
	}

	nStarts := 5 + int(5*math.Sqrt(float64(nDims)))
	starts := make([][]float64, nStarts)
	if best != nil {
		starts[0] = append([]float64(nil), best...)
	}
	for i := range starts {
		if starts[i] == nil {
			starts[i] = randomPoint(b.rng, bounds)
		}
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-6,
			Relative:   1e-6,
			Iterations: 100,
		},
	}

	bestX := append([]float64(nil), starts[0]...)
	bestVal := math.Inf(1)
	for _, start := range starts {
		method := &optimize.NelderMead{SimplexSize: 0.2}
		result, err := optimize.Minimize(problem, start, settings, method)
		if err == nil && result.F < bestVal {
			bestVal = result.F
			copy(bestX, result.X)
		}
	}

	for i := range bestX {
		bestX[i] = math.Max(bounds[i][0], math.Min(bestX[i], bounds[i][1]))
	}
	return bestX
}

// normalize maps x into [0,1]^n using the bounds box.
func normalize(x []float64, bounds [][2]float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		span := bounds[i][1] - bounds[i][0]
		if span <= 0 {
			span = 1
		}
		out[i] = (x[i] - bounds[i][0]) / span
	}
	return out
}
