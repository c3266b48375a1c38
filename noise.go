package goesc

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// PerformanceMap maps a parameter value to the performance J obtained with it.
type PerformanceMap interface {
	Evaluate(θ float64) float64
	String() string
}

// QuadraticMap is J(θ) = Peak - Curvature*(θ-Optimum)².
type QuadraticMap struct {
	Optimum, Curvature, Peak float64
}

// Evaluate implements the PerformanceMap interface.
func (m QuadraticMap) Evaluate(θ float64) float64 {
	d := θ - m.Optimum
	return m.Peak - m.Curvature*d*d
}

// String implements the Stringer interface.
func (m QuadraticMap) String() string {
	return fmt.Sprintf("J(θ)=%g-%g*(θ-%g)²", m.Peak, m.Curvature, m.Optimum)
}

// Noise corrupts the performance measured at each iteration.
type Noise interface {
	Measurement(k int) float64 // Returns the measurement noise at step k
	Variance() float64
	String() string
}

// Noiseless implements the Noise interface.
type Noiseless struct{}

// Measurement implements the Noise interface.
func (Noiseless) Measurement(k int) float64 {
	return 0
}

// Variance implements the Noise interface.
func (Noiseless) Variance() float64 {
	return 0
}

// String implements the Stringer interface.
func (Noiseless) String() string {
	return "Noiseless"
}

// BatchNoise replays a recorded noise sequence.
type BatchNoise []float64

// Measurement implements the Noise interface.
func (n BatchNoise) Measurement(k int) float64 {
	if k >= len(n) {
		panic(fmt.Errorf("no measurement noise defined at step k=%d", k))
	}
	return n[k]
}

// Variance implements the Noise interface.
func (n BatchNoise) Variance() float64 {
	return 0
}

// String implements the Stringer interface.
func (n BatchNoise) String() string {
	return "BatchNoise"
}

// AWGN implements the Noise interface and generates an additive white Gaussian noise.
type AWGN struct {
	σ    float64
	dist distuv.Normal
}

// NewAWGN creates a new AWGN of standard deviation σ. The seed makes runs reproducible.
func NewAWGN(σ float64, seed uint64) (*AWGN, error) {
	if !isFinite(σ) || σ < 0 {
		return nil, invalidParam("noise standard deviation must be non negative, got %f", σ)
	}
	return &AWGN{σ, distuv.Normal{Mu: 0, Sigma: σ, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}}, nil
}

// Measurement implements the Noise interface.
func (n *AWGN) Measurement(k int) float64 {
	if n.σ == 0 {
		return 0
	}
	return n.dist.Rand()
}

// Variance implements the Noise interface.
func (n *AWGN) Variance() float64 {
	return math.Pow(n.σ, 2)
}

// String implements the Stringer interface.
func (n *AWGN) String() string {
	return fmt.Sprintf("AWGN{σ=%g}", n.σ)
}
