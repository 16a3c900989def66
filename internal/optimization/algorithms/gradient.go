package algorithms

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// GradientDescentOptimizer is the deterministic strategy: central-difference
// numerical gradients with a fixed learning rate and a per-step clamp into
// the constraint box. It can stall in local optima; the induced surface is
// non-convex.
type GradientDescentOptimizer struct {
	ec            *optimization.EvalContext
	maxIterations int
	tolerance     float64
	learningRate  float64
}

// NewGradientDescent creates the strategy with the shared evaluation
// context and run parameters.
func NewGradientDescent(ec *optimization.EvalContext, params optimization.Params) *GradientDescentOptimizer {
	maxIter := params.MaxIterations
	if maxIter < 1 {
		maxIter = 100
	}
	tol := params.Tolerance
	if tol <= 0 {
		tol = 1e-3
	}
	return &GradientDescentOptimizer{
		ec:            ec,
		maxIterations: maxIter,
		tolerance:     tol,
		learningRate:  0.01,
	}
}

// Optimize runs the descent from the given initial guess.
// If every partial derivative already satisfies the tolerance at the start,
// it returns immediately with zero iterations.
func (g *GradientDescentOptimizer) Optimize(ctx context.Context, initial prediction.Parameters) (*optimization.Result, error) {
	bounds := g.ec.Bounds()
	x := optimization.ToVector(g.ec.ClampToBox(initial))

	score, err := g.ec.ScoreVector(x)
	if err != nil {
		return nil, err
	}

	history := make([]optimization.Snapshot, 0, g.maxIterations)
	iterations := 0

	for iterations < g.maxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		grad, err := g.gradient(x, bounds)
		if err != nil {
			return nil, err
		}
		if floats.Norm(grad, math.Inf(1)) < g.tolerance {
			break
		}

		for i := range x {
			x[i] -= g.learningRate * grad[i]
			// Per-step clamp into the box.
			x[i] = math.Max(bounds[i][0], math.Min(x[i], bounds[i][1]))
		}

		score, err = g.ec.ScoreVector(x)
		if err != nil {
			return nil, err
		}
		iterations++
		history = append(history, optimization.Snapshot{
			Iteration:  iterations,
			Parameters: optimization.FromVector(x),
			Objective:  score,
		})
	}

	return buildResult(g.ec, x, score, iterations, history)
}

// gradient computes the central-difference numerical gradient, stepping a
// small fraction of each parameter's constraint span.
func (g *GradientDescentOptimizer) gradient(x []float64, bounds [][2]float64) ([]float64, error) {
	grad := make([]float64, len(x))
	for i := range x {
		h := 1e-4 * (bounds[i][1] - bounds[i][0])
		if h <= 0 {
			continue
		}

		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h

		fp, err := g.ec.ScoreVector(xp)
		if err != nil {
			return nil, err
		}
		fm, err := g.ec.ScoreVector(xm)
		if err != nil {
			return nil, err
		}
		grad[i] = (fp - fm) / (2 * h)
	}
	return grad, nil
}
