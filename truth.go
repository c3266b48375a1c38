package goesc

import "fmt"

// QuadraticTruth computes the error of the estimates of a personalisation session run
// against a known QuadraticMap. Estimators report derivatives of the cost -J, so the
// true gradient at θ is 2c(θ-θ*) and the true curvature is 2c.
type QuadraticTruth struct {
	m QuadraticMap
}

// NewQuadraticTruth initializes a new ground truth for the map m.
func NewQuadraticTruth(m QuadraticMap) *QuadraticTruth {
	return &QuadraticTruth{m}
}

// Gradient returns the gradient of the cost at θ.
func (t *QuadraticTruth) Gradient(θ float64) float64 {
	return 2 * t.m.Curvature * (θ - t.m.Optimum)
}

// Curvature returns the curvature of the cost, which does not depend on θ.
func (t *QuadraticTruth) Curvature() float64 {
	return 2 * t.m.Curvature
}

// Optimum returns θ*.
func (t *QuadraticTruth) Optimum() float64 {
	return t.m.Optimum
}

// Error returns the estimate errors (gradient first, then curvature if estimated) of
// est when the parameter is at θ.
func (t *QuadraticTruth) Error(θ float64, est Estimator) []float64 {
	return t.ErrorWithScale(θ, est, 1)
}

// ErrorWithScale returns the estimate errors after scaling the true gradient. This is
// needed for estimators which report the gradient multiplied by the probe amplitude,
// such as the gradient observer.
func (t *QuadraticTruth) ErrorWithScale(θ float64, est Estimator, scale float64) []float64 {
	estimates := est.GetAllEstimates()
	if len(estimates) > 2 {
		panic(fmt.Errorf("ground truth only defines a gradient and a curvature, got %d estimates", len(estimates)))
	}
	errs := make([]float64, len(estimates))
	errs[0] = estimates[0] - scale*t.Gradient(θ)
	if len(estimates) == 2 {
		errs[1] = estimates[1] - t.Curvature()
	}
	return errs
}

// ParameterError returns θ - θ* for every record.
func (t *QuadraticTruth) ParameterError(records []Record) []float64 {
	errs := make([]float64, len(records))
	for k, r := range records {
		errs[k] = r.Parameter - t.m.Optimum
	}
	return errs
}
