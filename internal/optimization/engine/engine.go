// Package engine orchestrates optimization runs: it selects the search
// strategy, builds default initial guesses from the constraint box, adds
// post-hoc sensitivity analysis, and drives the multi-objective sweep.
package engine

import (
	"context"
	"errors"
	"math"

	apperrors "github.com/samfrons/Messai.io-sub005/internal/errors"
	"github.com/samfrons/Messai.io-sub005/internal/logging"
	"github.com/samfrons/Messai.io-sub005/internal/metrics"
	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/optimization/algorithms"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// Request is one optimization job.
type Request struct {
	Objective   optimization.Objective
	Constraints optimization.Constraints
	Params      optimization.Params
	Oracle      optimization.Oracle
	// InitialGuess is optional; the engine defaults to the middle of the
	// constraint box.
	InitialGuess *prediction.Parameters
}

// Engine dispatches optimization requests to the concrete strategies.
type Engine struct {
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// New creates an engine. Both arguments are optional.
func New(logger *logging.Logger, m *metrics.Metrics) *Engine {
	return &Engine{logger: logger, metrics: m}
}

// Run executes one single-objective optimization. For every strategy
// except the genetic algorithm it appends a per-parameter sensitivity
// analysis around the optimum.
func (e *Engine) Run(ctx context.Context, req Request) (result *optimization.Result, err error) {
	if req.Oracle == nil {
		return nil, optimization.NewError("evaluation oracle is required")
	}

	ec := &optimization.EvalContext{
		Objective:   req.Objective,
		Constraints: req.Constraints,
		Oracle:      req.Oracle,
		Metrics:     e.metrics,
	}

	initial := e.initialGuess(req, ec)
	kind := req.Params.Algorithm
	algo, effective := e.newAlgorithm(kind, ec, req.Params)

	defer apperrors.Recover(e.logger, effective.String(), &err)

	result, err = algo.Optimize(ctx, initial)
	if err != nil {
		if e.metrics != nil {
			e.metrics.OptimizationRuns.WithLabelValues(effective.String(), "error").Inc()
		}
		return nil, attributeStrategyError(err, effective)
	}

	if effective != optimization.GeneticAlgorithm {
		sens, serr := sensitivityAnalysis(ec, result.OptimizedParameters, result.ObjectiveValue)
		if serr != nil {
			return nil, serr
		}
		result.Sensitivities = sens
	}

	outcome := "success"
	if !result.Success {
		outcome = "infeasible"
	}
	if e.metrics != nil {
		e.metrics.OptimizationRuns.WithLabelValues(effective.String(), outcome).Inc()
	}
	if e.logger != nil {
		e.logger.Info("optimization run finished", map[string]interface{}{
			"algorithm":  effective.String(),
			"objective":  req.Objective.Kind.String(),
			"iterations": result.Iterations,
			"success":    result.Success,
			"value":      result.ObjectiveValue,
		})
	}
	return result, nil
}

// attributeStrategyError tags a strategy failure with the algorithm that
// produced it. Context errors pass through unchanged so cancellation stays
// matchable with errors.Is, and errors already carrying a component keep
// theirs.
func attributeStrategyError(err error, kind optimization.AlgorithmKind) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if oe, ok := optimization.IsOptimizationError(err); ok {
		if oe.Component == "" {
			oe.WithComponent(kind.String())
		}
		return oe
	}
	aerr := optimization.NewAlgorithmError(kind, "strategy run failed")
	aerr.Err = err
	return aerr
}

// newAlgorithm is the closed dispatch over strategy kinds. Simulated
// annealing is named but not implemented, and any unrecognized kind falls
// back the same way: both run the genetic algorithm.
func (e *Engine) newAlgorithm(kind optimization.AlgorithmKind, ec *optimization.EvalContext,
	params optimization.Params) (optimization.Algorithm, optimization.AlgorithmKind) {

	switch kind {
	case optimization.GradientDescent:
		return algorithms.NewGradientDescent(ec, params), kind
	case optimization.GeneticAlgorithm:
		return algorithms.NewGenetic(ec, params), kind
	case optimization.ParticleSwarm:
		return algorithms.NewParticleSwarm(ec, params), kind
	case optimization.Bayesian:
		return algorithms.NewBayesian(ec, params), kind
	case optimization.SimulatedAnnealing:
		fallthrough
	default:
		if e.logger != nil {
			e.logger.Warn("unsupported algorithm, falling back to genetic algorithm",
				map[string]interface{}{"requested": kind.String()})
		}
		return algorithms.NewGenetic(ec, params), optimization.GeneticAlgorithm
	}
}

// initialGuess returns the caller's guess or the middle of the box.
func (e *Engine) initialGuess(req Request, ec *optimization.EvalContext) prediction.Parameters {
	if req.InitialGuess != nil {
		return ec.ClampToBox(*req.InitialGuess)
	}
	bounds := ec.Bounds()
	mid := make([]float64, len(bounds))
	for i, b := range bounds {
		mid[i] = (b[0] + b[1]) / 2
	}
	return optimization.FromVector(mid)
}

// sensitivityAnalysis probes the objective around the optimum: a small
// relative central difference per parameter, plus a full-range sweep to
// find the band where the objective stays within 95% of the optimum.
func sensitivityAnalysis(ec *optimization.EvalContext, optimum prediction.Parameters,
	optimumValue float64) (map[string]optimization.Sensitivity, error) {

	const sweepSteps = 20
	bounds := ec.Bounds()
	x := optimization.ToVector(optimum)
	out := make(map[string]optimization.Sensitivity, len(x))

	// Worse-by-at-most-5%-of-magnitude band around the minimized optimum.
	threshold := optimumValue + 0.05*math.Abs(optimumValue)

	for i, name := range optimization.ParamNames {
		span := bounds[i][1] - bounds[i][0]
		if span <= 0 {
			out[name] = optimization.Sensitivity{
				StableRange: optimization.Interval{Min: bounds[i][0], Max: bounds[i][1]},
			}
			continue
		}

		h := 0.01 * span
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		fp, err := ec.ScoreVector(xp)
		if err != nil {
			return nil, err
		}
		fm, err := ec.ScoreVector(xm)
		if err != nil {
			return nil, err
		}
		gradient := (fp - fm) / (2 * h)

		lo, hi := x[i], x[i]
		xs := append([]float64(nil), x...)
		for s := 0; s <= sweepSteps; s++ {
			v := bounds[i][0] + span*float64(s)/sweepSteps
			xs[i] = v
			f, err := ec.ScoreVector(xs)
			if err != nil {
				return nil, err
			}
			if f <= threshold {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}

		out[name] = optimization.Sensitivity{
			Gradient:    gradient,
			StableRange: optimization.Interval{Min: lo, Max: hi},
		}
	}
	return out, nil
}
