// Package acquisition provides the proposal rules used by the approximate
// Bayesian strategy. The mean and uncertainty fed in come from the
// nearest-neighbor proxy, not a calibrated surrogate, so these are scoring
// heuristics rather than probabilistic guarantees.
package acquisition

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// ExpectedImprovement implements the Expected Improvement acquisition
// function for minimization.
type ExpectedImprovement struct {
	// Best observed value so far
	bestObserved float64
	// Exploration-exploitation trade-off parameter (xi)
	xi float64
}

// NewExpectedImprovement creates a new ExpectedImprovement acquisition
// function. Lower objective values are better.
func NewExpectedImprovement(bestObserved, xi float64) *ExpectedImprovement {
	return &ExpectedImprovement{
		bestObserved: bestObserved,
		xi:           xi,
	}
}

// Compute computes the Expected Improvement at a point.
// mu: proxy mean at the point
// sigma: proxy uncertainty at the point
// Returns the expected improvement value (always non-negative).
func (ei *ExpectedImprovement) Compute(mu, sigma float64) float64 {
	// improvement = best_observed - mu - xi for minimization
	improvement := ei.bestObserved - mu - ei.xi

	if improvement <= 0 && sigma <= 1e-10 {
		return 0.0
	}

	// Zero uncertainty means the improvement is taken at face value.
	if sigma <= 1e-10 {
		return improvement
	}

	stdNormal := distuv.UnitNormal
	z := improvement / sigma

	// EI = improvement * Phi(z) + sigma * phi(z)
	return improvement*stdNormal.CDF(z) + sigma*stdNormal.Prob(z)
}

// UpdateBest updates the best observed value.
func (ei *ExpectedImprovement) UpdateBest(best float64) {
	ei.bestObserved = best
}

// SetXi sets the exploration-exploitation trade-off parameter.
func (ei *ExpectedImprovement) SetXi(xi float64) {
	ei.xi = xi
}

// BestObserved returns the best observed value.
func (ei *ExpectedImprovement) BestObserved() float64 {
	return ei.bestObserved
}

// UpperConfidenceBound implements the lower-confidence-bound rule for
// minimization: score = -(mu - kappa*sigma), so larger is better, matching
// the ExpectedImprovement orientation.
type UpperConfidenceBound struct {
	kappa float64
}

// NewUpperConfidenceBound creates the rule with the given exploration
// weight kappa.
func NewUpperConfidenceBound(kappa float64) *UpperConfidenceBound {
	return &UpperConfidenceBound{kappa: kappa}
}

// Compute scores a point from its proxy mean and uncertainty.
func (u *UpperConfidenceBound) Compute(mu, sigma float64) float64 {
	return -(mu - u.kappa*sigma)
}
