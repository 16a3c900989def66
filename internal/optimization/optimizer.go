// Package optimization defines the shared contract for the bioreactor
// parameter search: the objective and constraint model, the evaluation
// oracle, and the Algorithm interface the concrete strategies implement.
package optimization

import (
	"context"
	"fmt"

	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// ObjectiveKind selects what a run optimizes for.
type ObjectiveKind int

const (
	MaximizePower ObjectiveKind = iota
	MaximizeEfficiency
	MinimizeCost
	MaximizeDurability
	MultiObjective
)

// String returns a human-readable name for the objective kind.
func (k ObjectiveKind) String() string {
	switch k {
	case MaximizePower:
		return "maximize-power"
	case MaximizeEfficiency:
		return "maximize-efficiency"
	case MinimizeCost:
		return "minimize-cost"
	case MaximizeDurability:
		return "maximize-durability"
	case MultiObjective:
		return "multi-objective"
	default:
		return fmt.Sprintf("objective(%d)", int(k))
	}
}

// Weights blends power, efficiency and cost for MultiObjective runs.
// Callers normally make them sum to 1; Normalize enforces it.
type Weights struct {
	Power      float64
	Efficiency float64
	Cost       float64
}

// Normalize scales the weights to sum to 1. An all-zero triple becomes an
// even split.
func (w Weights) Normalize() Weights {
	sum := w.Power + w.Efficiency + w.Cost
	if sum <= 0 {
		return Weights{Power: 1.0 / 3, Efficiency: 1.0 / 3, Cost: 1.0 / 3}
	}
	return Weights{Power: w.Power / sum, Efficiency: w.Efficiency / sum, Cost: w.Cost / sum}
}

// Targets are optional absolute thresholds checked on the final candidate.
type Targets struct {
	MinPowerDensity *float64 // mW/m^2
	MinEfficiency   *float64 // percent
	MaxCost         *float64 // USD/day
}

// Objective is the tagged objective choice for one run.
type Objective struct {
	Kind    ObjectiveKind
	Weights Weights // used by MultiObjective only
	Targets Targets
}

// Interval is a closed admissible interval for one parameter.
type Interval struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the closed interval.
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Min && v <= iv.Max
}

// Constraints is the constraint box: one interval per required parameter,
// optional intervals for the extension fields, and an optional material
// cost bound.
type Constraints struct {
	Temperature            Interval
	PH                     Interval
	FlowRate               Interval
	MixingSpeed            Interval
	ElectrodeVoltage       Interval
	SubstrateConcentration Interval

	Pressure    *Interval
	OxygenLevel *Interval
	Salinity    *Interval

	MaxMaterialCost *float64 // USD/day, checked like a target
}

// AlgorithmKind is the closed set of search strategies.
type AlgorithmKind int

const (
	GradientDescent AlgorithmKind = iota
	GeneticAlgorithm
	ParticleSwarm
	Bayesian
	// SimulatedAnnealing is named but not implemented; the engine
	// dispatches it to the genetic algorithm.
	SimulatedAnnealing
)

// String returns a human-readable name for the algorithm kind.
func (k AlgorithmKind) String() string {
	switch k {
	case GradientDescent:
		return "gradient-descent"
	case GeneticAlgorithm:
		return "genetic-algorithm"
	case ParticleSwarm:
		return "particle-swarm"
	case Bayesian:
		return "bayesian"
	case SimulatedAnnealing:
		return "simulated-annealing"
	default:
		return fmt.Sprintf("algorithm(%d)", int(k))
	}
}

// AcquisitionKind selects the proposal rule of the Bayesian strategy.
type AcquisitionKind int

const (
	ExpectedImprovement AcquisitionKind = iota
	UpperConfidenceBound
)

// Params are the run-level tuning knobs.
type Params struct {
	Algorithm     AlgorithmKind
	MaxIterations int
	Tolerance     float64
	// PopulationSize applies to the genetic algorithm and particle swarm.
	PopulationSize int
	// Acquisition applies to the Bayesian strategy.
	Acquisition AcquisitionKind
	// RandomSeed makes stochastic runs reproducible. Zero seeds from the
	// wall clock.
	RandomSeed int64
}

// Evaluation is one oracle outcome. Cost is optional; when the oracle
// omits it the analytic estimator fills in.
type Evaluation struct {
	Power      float64 // mW/m^2
	Efficiency float64 // percent
	Cost       float64 // USD/day
	HasCost    bool
}

// Oracle maps a parameter vector to its predicted performance. It is
// normally backed by the prediction engine at a chosen fidelity.
type Oracle func(prediction.Parameters) (Evaluation, error)

// FromPrediction adapts a prediction-engine closure into an Oracle.
// Cost carries over when the result includes the economics block.
func FromPrediction(predict func(prediction.Parameters) (*prediction.Result, error)) Oracle {
	return func(p prediction.Parameters) (Evaluation, error) {
		res, err := predict(p)
		if err != nil {
			return Evaluation{}, err
		}
		ev := Evaluation{
			Power:      res.PowerDensity,
			Efficiency: res.Efficiency,
		}
		if res.Intermediate != nil {
			ev.Cost = res.Intermediate.Economics.OperatingCost
			ev.HasCost = true
		}
		return ev, nil
	}
}

// Snapshot is one entry of the convergence history.
type Snapshot struct {
	Iteration  int
	Parameters prediction.Parameters
	Objective  float64 // scalarized value being minimized
}

// Sensitivity describes the local response of the objective around the
// optimum for one parameter.
type Sensitivity struct {
	// Gradient is the derivative-like score from a small relative step.
	Gradient float64
	// StableRange is the sub-interval of the constraint box where the
	// objective stays within 95% of the optimum.
	StableRange Interval
}

// ParetoPoint is one non-dominated outcome of the multi-objective search.
type ParetoPoint struct {
	Parameters prediction.Parameters
	Power      float64
	Efficiency float64
	Cost       float64
	Weights    Weights
}

// Result is the outcome of one optimization run.
type Result struct {
	Success             bool
	OptimizedParameters prediction.Parameters
	ObjectiveValue      float64 // scalarized value at the optimum (minimized)
	Violations          []string
	Iterations          int
	History             []Snapshot

	// ParetoFront is set by the multi-objective optimizer only.
	ParetoFront []ParetoPoint
	// Sensitivities is set by the engine for all algorithms except the
	// genetic algorithm.
	Sensitivities map[string]Sensitivity
}

// Algorithm is the single-operation optimizer contract. Implementations
// hold their own tuning state; shared logic lives in EvalContext.
type Algorithm interface {
	Optimize(ctx context.Context, initial prediction.Parameters) (*Result, error)
}
