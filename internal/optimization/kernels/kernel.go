// Package kernels provides stationary covariance kernels. The Bayesian
// strategy uses them to turn the distance between a candidate and its
// nearest observed neighbor into a bounded correlation, which in turn
// sizes the uncertainty term of its acquisition proxy.
package kernels

import (
	"fmt"
	"math"
)

// Kernel is a stationary covariance function on parameter vectors.
// Eval(x, x) equals the signal variance and values decay toward zero as
// the points separate.
type Kernel interface {
	Eval(x1, x2 []float64) float64

	// Hyperparameters returns [lengthScale, signalVariance].
	Hyperparameters() []float64
	// SetHyperparameters replaces both hyperparameters; both must be
	// positive.
	SetHyperparameters(params []float64) error
}

// scales holds the two hyperparameters every kernel here shares.
type scales struct {
	length float64 // larger is smoother
	signal float64 // amplitude of the function
}

func newScales(lengthScale, signalVar float64) scales {
	if lengthScale <= 0 {
		panic(fmt.Sprintf("lengthScale must be positive, got %v", lengthScale))
	}
	if signalVar <= 0 {
		panic(fmt.Sprintf("signalVar must be positive, got %v", signalVar))
	}
	return scales{length: lengthScale, signal: signalVar}
}

func (s *scales) Hyperparameters() []float64 {
	return []float64{s.length, s.signal}
}

func (s *scales) SetHyperparameters(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 hyperparameters, got %d", len(params))
	}
	if params[0] <= 0 || params[1] <= 0 {
		return fmt.Errorf("hyperparameters must be positive, got %v", params)
	}
	s.length = params[0]
	s.signal = params[1]
	return nil
}

func sumSquares(x1, x2 []float64) float64 {
	total := 0.0
	for i := range x1 {
		d := x1[i] - x2[i]
		total += d * d
	}
	return total
}

// RBFKernel is the squared-exponential kernel.
type RBFKernel struct {
	scales
}

// NewRBFKernel creates an RBF kernel. Panics on non-positive scales.
func NewRBFKernel(lengthScale, signalVar float64) *RBFKernel {
	return &RBFKernel{scales: newScales(lengthScale, signalVar)}
}

// Eval computes signalVar * exp(-r^2 / (2 l^2)).
func (k *RBFKernel) Eval(x1, x2 []float64) float64 {
	return k.signal * math.Exp(-sumSquares(x1, x2)/(2*k.length*k.length))
}

// Matern52Kernel is the Matern kernel with smoothness 5/2, a rougher
// alternative to the RBF for less regular response surfaces.
type Matern52Kernel struct {
	scales
}

// NewMatern52Kernel creates a Matern 5/2 kernel. Panics on non-positive
// scales.
func NewMatern52Kernel(lengthScale, signalVar float64) *Matern52Kernel {
	return &Matern52Kernel{scales: newScales(lengthScale, signalVar)}
}

// Eval computes signalVar * (1 + sqrt5 r + 5r^2/3) * exp(-sqrt5 r).
func (k *Matern52Kernel) Eval(x1, x2 []float64) float64 {
	r := math.Sqrt(sumSquares(x1, x2)) / k.length
	sqrt5r := math.Sqrt(5) * r
	return k.signal * (1.0 + sqrt5r + (5.0/3.0)*r*r) * math.Exp(-sqrt5r)
}
