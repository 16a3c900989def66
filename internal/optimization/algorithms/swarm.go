package algorithms

import (
	"context"
	"math/rand"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// Constriction-form coefficients (Clerc and Kennedy).
const (
	swarmInertia   = 0.729
	swarmCognitive = 1.494
	swarmSocial    = 1.494
)

// ParticleSwarmOptimizer moves a swarm of candidates under the
// constriction-form velocity update. It shares the genetic algorithm's
// initializer and rolling-variance convergence test.
type ParticleSwarmOptimizer struct {
	ec            *optimization.EvalContext
	maxIterations int
	tolerance     float64
	swarmSize     int
	rng           *rand.Rand
}

type particle struct {
	position  []float64
	velocity  []float64
	best      []float64
	bestScore float64
}

// NewParticleSwarm creates the strategy with the shared evaluation context
// and run parameters.
func NewParticleSwarm(ec *optimization.EvalContext, params optimization.Params) *ParticleSwarmOptimizer {
	size := params.PopulationSize
	if size < 2 {
		size = defaultPopulation
	}
	maxIter := params.MaxIterations
	if maxIter < 1 {
		maxIter = 100
	}
	return &ParticleSwarmOptimizer{
		ec:            ec,
		maxIterations: maxIter,
		tolerance:     params.Tolerance,
		swarmSize:     size,
		rng:           newRNG(params.RandomSeed),
	}
}

// Optimize runs the swarm until the rolling best-score variance drops
// below tolerance or the iteration budget is exhausted. The initial guess
// seeds the first particle.
func (s *ParticleSwarmOptimizer) Optimize(ctx context.Context, initial prediction.Parameters) (*optimization.Result, error) {
	bounds := s.ec.Bounds()
	nDims := len(bounds)

	swarm := make([]particle, s.swarmSize)
	for i := range swarm {
		var pos []float64
		if i == 0 {
			pos = optimization.ToVector(s.ec.ClampToBox(initial))
		} else {
			pos = randomPoint(s.rng, bounds)
		}
		vel := make([]float64, nDims)
		for d := range vel {
			span := bounds[d][1] - bounds[d][0]
			vel[d] = (s.rng.Float64()*2 - 1) * 0.1 * span
		}
		score, err := s.ec.ScoreVector(pos)
		if err != nil {
			return nil, err
		}
		swarm[i] = particle{
			position:  pos,
			velocity:  vel,
			best:      append([]float64(nil), pos...),
			bestScore: score,
		}
	}

	gBest, gBestScore := swarmBest(swarm)
	bestSeries := []float64{gBestScore}
	history := []optimization.Snapshot{{
		Iteration:  0,
		Parameters: optimization.FromVector(gBest),
		Objective:  gBestScore,
	}}

	iterations := 0
	for iterations < s.maxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for i := range swarm {
			p := &swarm[i]
			for d := range p.position {
				r1 := s.rng.Float64()
				r2 := s.rng.Float64()
				p.velocity[d] = swarmInertia*p.velocity[d] +
					swarmCognitive*r1*(p.best[d]-p.position[d]) +
					swarmSocial*r2*(gBest[d]-p.position[d])
				p.position[d] += p.velocity[d]
				// Clamp raw excursions back into the box and kill the
				// outward velocity component.
				if p.position[d] < bounds[d][0] {
					p.position[d] = bounds[d][0]
					p.velocity[d] = 0
				}
				if p.position[d] > bounds[d][1] {
					p.position[d] = bounds[d][1]
					p.velocity[d] = 0
				}
			}

			score, err := s.ec.ScoreVector(p.position)
			if err != nil {
				return nil, err
			}
			if score < p.bestScore {
				p.bestScore = score
				copy(p.best, p.position)
			}
			if score < gBestScore {
				gBestScore = score
				gBest = append([]float64(nil), p.position...)
			}
		}

		iterations++
		bestSeries = append(bestSeries, gBestScore)
		history = append(history, optimization.Snapshot{
			Iteration:  iterations,
			Parameters: optimization.FromVector(gBest),
			Objective:  gBestScore,
		})

		if plateaued(bestSeries, s.tolerance) {
			break
		}
	}

	return buildResult(s.ec, gBest, gBestScore, iterations, history)
}

func swarmBest(swarm []particle) ([]float64, float64) {
	best := swarm[0].best
	bestScore := swarm[0].bestScore
	for _, p := range swarm[1:] {
		if p.bestScore < bestScore {
			bestScore = p.bestScore
			best = p.best
		}
	}
	return append([]float64(nil), best...), bestScore
}
