package algorithms

import (
	"context"
	"math/rand"
	"sort"

	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// Genetic-algorithm tuning constants.
const (
	defaultPopulation = 50
	eliteFraction     = 0.10
	tournamentSize    = 3
	crossoverRate     = 0.80 // chance a selected pair recombines
	geneSwapRate      = 0.50 // per-gene swap chance in uniform crossover
	mutationRate      = 0.10 // per-gene mutation chance
	mutationScale     = 0.10 // gaussian sigma as a fraction of the span
)

// GeneticOptimizer evolves a population of candidate operating points with
// elitism, tournament selection, uniform crossover and physically-scaled
// mutation.
type GeneticOptimizer struct {
	ec             *optimization.EvalContext
	maxGenerations int
	tolerance      float64
	populationSize int
	rng            *rand.Rand
}

type individual struct {
	genes []float64
	score float64
}

// NewGenetic creates the strategy with the shared evaluation context and
// run parameters.
func NewGenetic(ec *optimization.EvalContext, params optimization.Params) *GeneticOptimizer {
	pop := params.PopulationSize
	if pop < 2 {
		pop = defaultPopulation
	}
	maxGen := params.MaxIterations
	if maxGen < 1 {
		maxGen = 100
	}
	return &GeneticOptimizer{
		ec:             ec,
		maxGenerations: maxGen,
		tolerance:      params.Tolerance,
		populationSize: pop,
		rng:            newRNG(params.RandomSeed),
	}
}

// Optimize evolves the population until the rolling best-score variance
// drops below tolerance or the generation budget is exhausted. The initial
// guess seeds the first population.
func (g *GeneticOptimizer) Optimize(ctx context.Context, initial prediction.Parameters) (*optimization.Result, error) {
	bounds := g.ec.Bounds()

	pop := make([]individual, g.populationSize)
	pop[0] = individual{genes: optimization.ToVector(g.ec.ClampToBox(initial))}
	for i := 1; i < g.populationSize; i++ {
		pop[i] = individual{genes: randomPoint(g.rng, bounds)}
	}
	if err := g.evaluate(pop); err != nil {
		return nil, err
	}
	sortByScore(pop)

	best := clonedGenes(pop[0])
	bestScore := pop[0].score
	bestSeries := []float64{bestScore}
	history := []optimization.Snapshot{{
		Iteration:  0,
		Parameters: optimization.FromVector(best.genes),
		Objective:  bestScore,
	}}

	generations := 0
	for generations < g.maxGenerations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pop = g.nextGeneration(pop, bounds)
		if err := g.evaluate(pop); err != nil {
			return nil, err
		}
		sortByScore(pop)

		if pop[0].score < bestScore {
			bestScore = pop[0].score
			best = clonedGenes(pop[0])
		}
		generations++
		bestSeries = append(bestSeries, bestScore)
		history = append(history, optimization.Snapshot{
			Iteration:  generations,
			Parameters: optimization.FromVector(pop[0].genes),
			Objective:  pop[0].score,
		})

		if plateaued(bestSeries, g.tolerance) {
			break
		}
	}

	return buildResult(g.ec, best.genes, bestScore, generations, history)
}

func (g *GeneticOptimizer) evaluate(pop []individual) error {
	for i := range pop {
		score, err := g.ec.ScoreVector(pop[i].genes)
		if err != nil {
			return err
		}
		pop[i].score = score
	}
	return nil
}

// nextGeneration applies elitism, tournament selection, uniform crossover
// and mutation. Every child is clamped back into the box.
func (g *GeneticOptimizer) nextGeneration(pop []individual, bounds [][2]float64) []individual {
	next := make([]individual, 0, g.populationSize)

	elite := int(float64(g.populationSize) * eliteFraction)
	if elite < 1 {
		elite = 1
	}
	for i := 0; i < elite && i < len(pop); i++ {
		next = append(next, clonedGenes(pop[i]))
	}

	for len(next) < g.populationSize {
		p1 := g.tournament(pop)
		p2 := g.tournament(pop)

		c1 := append([]float64(nil), p1.genes...)
		c2 := append([]float64(nil), p2.genes...)
		if g.rng.Float64() < crossoverRate {
			for i := range c1 {
				if g.rng.Float64() < geneSwapRate {
					c1[i], c2[i] = c2[i], c1[i]
				}
			}
		}

		g.mutate(c1, bounds)
		next = append(next, individual{genes: c1})
		if len(next) < g.populationSize {
			g.mutate(c2, bounds)
			next = append(next, individual{genes: c2})
		}
	}

	return next
}

// tournament picks the best of tournamentSize random contestants.
func (g *GeneticOptimizer) tournament(pop []individual) individual {
	best := pop[g.rng.Intn(len(pop))]
	for i := 1; i < tournamentSize; i++ {
		c := pop[g.rng.Intn(len(pop))]
		if c.score < best.score {
			best = c
		}
	}
	return best
}

// mutate perturbs genes with a gaussian scaled to each parameter's span,
// then clamps into the box.
func (g *GeneticOptimizer) mutate(genes []float64, bounds [][2]float64) {
	for i := range genes {
		if g.rng.Float64() < mutationRate {
			span := bounds[i][1] - bounds[i][0]
			genes[i] += g.rng.NormFloat64() * mutationScale * span
		}
		if genes[i] < bounds[i][0] {
			genes[i] = bounds[i][0]
		}
		if genes[i] > bounds[i][1] {
			genes[i] = bounds[i][1]
		}
	}
}

func sortByScore(pop []individual) {
	sort.Slice(pop, func(i, j int) bool { return pop[i].score < pop[j].score })
}

func clonedGenes(ind individual) individual {
	return individual{
		genes: append([]float64(nil), ind.genes...),
		score: ind.score,
	}
}
