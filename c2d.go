package goesc

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Discretize computes the state transition F = exp(A*Δt) of the provided CT
// system matrix A for the sampling time Δt.
// An error is returned (along with F) when the Nyquist criterion is not fulfilled,
// in which case F aliases the fastest mode of A.
func Discretize(A mat.Matrix, Δt float64) (*mat.Dense, error) {
	if r, c := A.Dims(); r != c {
		return nil, invalidParam("A must be square, got (%dx%d)", r, c)
	}
	if !isFinite(Δt) || Δt <= 0 {
		return nil, invalidParam("sample time must be positive, got %f", Δt)
	}
	var err error
	// Check aliasing
	var eig mat.Eigen
	if !eig.Factorize(A, mat.EigenNone) {
		return nil, fmt.Errorf("goesc: eigen decomposition of A failed")
	}
	var λmax float64
	for _, λ := range eig.Values(nil) {
		if abs := cmplx.Abs(λ); abs > λmax {
			λmax = abs
		}
	}
	if λmax*Δt >= math.Pi {
		err = fmt.Errorf("goesc: Nyquist sampling criterion not fulfilled with Δt=%f (|λ|max=%f)", Δt, λmax)
	}

	var Ap, F mat.Dense
	Ap.Scale(Δt, A)
	F.Exp(&Ap)
	return &F, err
}

// Harmonic returns the CT generator of a harmonic oscillator of angular frequency ω:
//  ẋ₁ =  ω x₂
//  ẋ₂ = -ω x₁
// so that x₁ = b sin(ωt+φ) and x₂ = b cos(ωt+φ).
func Harmonic(ω float64) *mat.Dense {
	return mat.NewDense(2, 2, []float64{0, ω, -ω, 0})
}
