package engine

import (
	"context"
	"math"
	"sync"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/optimization/algorithms"
)

// MultiObjectiveConfig tunes the Pareto sweep.
type MultiObjectiveConfig struct {
	// Samples is the number of weighted single-objective runs. Defaults
	// to 20.
	Samples int
	// Workers bounds the number of concurrent runs. The runs share no
	// mutable state, so they can execute in parallel. Defaults to 4.
	Workers int
}

// RunMultiObjective sweeps random power/efficiency/cost weightings summing
// to 1, collects every outcome, discards dominated solutions, and returns
// the non-dominated set plus a best-compromise pick closest to the ideal
// point. The request's objective kind is overridden per run.
func (e *Engine) RunMultiObjective(ctx context.Context, req Request, cfg MultiObjectiveConfig) (*optimization.Result, error) {
	samples := cfg.Samples
	if samples < 1 {
		samples = 20
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}
	if workers > samples {
		workers = samples
	}

	// Weight triples are drawn up front so the sweep is reproducible for
	// a fixed seed regardless of worker scheduling.
	rng := algorithms.NewSweepRNG(req.Params.RandomSeed)
	weights := make([]optimization.Weights, samples)
	for i := range weights {
		weights[i] = optimization.Weights{
			Power:      rng.Float64(),
			Efficiency: rng.Float64(),
			Cost:       rng.Float64(),
		}.Normalize()
	}

	// Runs cancel each other through the derived context on the first
	// failure; the parent is kept so external cancellation can be told
	// apart afterwards.
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		point optimization.ParetoPoint
		err   error
	}
	results := make([]outcome, samples)

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < samples; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sub := req
			sub.Objective.Kind = optimization.MultiObjective
			sub.Objective.Weights = weights[i]
			sub.Params.RandomSeed = req.Params.RandomSeed + int64(i) + 1

			res, err := e.Run(ctx, sub)
			if err != nil {
				results[i] = outcome{err: err}
				cancel()
				return
			}

			ev, err := req.Oracle(res.OptimizedParameters)
			if err != nil {
				results[i] = outcome{err: err}
				cancel()
				return
			}
			cost := ev.Cost
			if !ev.HasCost {
				cost = optimization.EstimateCost(res.OptimizedParameters)
			}
			results[i] = outcome{point: optimization.ParetoPoint{
				Parameters: res.OptimizedParameters,
				Power:      ev.Power,
				Efficiency: ev.Efficiency,
				Cost:       cost,
				Weights:    weights[i],
			}}
		}(i)
	}
	wg.Wait()

	points := make([]optimization.ParetoPoint, 0, samples)
	for _, o := range results {
		if o.err != nil {
			// Context errors from sibling cancellation are secondary;
			// surface the first real failure if there is one.
			if ctx.Err() != nil && o.err == ctx.Err() {
				continue
			}
			return nil, o.err
		}
		points = append(points, o.point)
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, optimization.NewError("multi-objective sweep produced no outcomes")
	}

	front := paretoFilter(points)
	compromise := bestCompromise(front)

	// Report the compromise as the run outcome, with its feasibility
	// re-checked against the constraint box.
	ec := &optimization.EvalContext{
		Objective:   req.Objective,
		Constraints: req.Constraints,
		Oracle:      req.Oracle,
	}
	violations := ec.CheckFinal(compromise.Parameters, optimization.Evaluation{
		Power:      compromise.Power,
		Efficiency: compromise.Efficiency,
		Cost:       compromise.Cost,
		HasCost:    true,
	})

	return &optimization.Result{
		Success:             len(violations) == 0,
		OptimizedParameters: compromise.Parameters,
		ObjectiveValue:      -compromise.Power, // compromise reported on the power axis
		Violations:          violations,
		Iterations:          samples,
		ParetoFront:         front,
	}, nil
}

// dominates reports whether b is at least as good as a on every tracked
// metric and strictly better on at least one. Power and efficiency are
// maximized, cost is minimized.
func dominates(b, a optimization.ParetoPoint) bool {
	if b.Power < a.Power || b.Efficiency < a.Efficiency || b.Cost > a.Cost {
		return false
	}
	return b.Power > a.Power || b.Efficiency > a.Efficiency || b.Cost < a.Cost
}

// paretoFilter keeps the non-dominated subset.
func paretoFilter(points []optimization.ParetoPoint) []optimization.ParetoPoint {
	front := make([]optimization.ParetoPoint, 0, len(points))
	for i, a := range points {
		dominated := false
		for j, b := range points {
			if i != j && dominates(b, a) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, a)
		}
	}
	return front
}

// bestCompromise picks the front member with the minimum normalized
// Euclidean distance to the ideal point: best power, best efficiency and
// lowest cost seen anywhere in the front.
func bestCompromise(front []optimization.ParetoPoint) optimization.ParetoPoint {
	var (
		maxPower = math.Inf(-1)
		minPower = math.Inf(1)
		maxEff   = math.Inf(-1)
		minEff   = math.Inf(1)
		maxCost  = math.Inf(-1)
		minCost  = math.Inf(1)
	)
	for _, p := range front {
		maxPower = math.Max(maxPower, p.Power)
		minPower = math.Min(minPower, p.Power)
		maxEff = math.Max(maxEff, p.Efficiency)
		minEff = math.Min(minEff, p.Efficiency)
		maxCost = math.Max(maxCost, p.Cost)
		minCost = math.Min(minCost, p.Cost)
	}

	span := func(hi, lo float64) float64 {
		if hi-lo < 1e-12 {
			return 1
		}
		return hi - lo
	}
	powerSpan := span(maxPower, minPower)
	effSpan := span(maxEff, minEff)
	costSpan := span(maxCost, minCost)

	best := front[0]
	bestDist := math.Inf(1)
	for _, p := range front {
		dp := (maxPower - p.Power) / powerSpan
		de := (maxEff - p.Efficiency) / effSpan
		dc := (p.Cost - minCost) / costSpan
		dist := math.Sqrt(dp*dp + de*de + dc*dc)
		if dist < bestDist {
			bestDist = dist
			best = p
		}
	}
	return best
}
