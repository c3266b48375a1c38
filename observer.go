package goesc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxObservabilityCond bounds the condition number of the observability matrix
// used to compute the dead-beat gains.
const maxObservabilityCond = 1e10

// ObserverConfig parametrises a discrete gradient (Hessian) observer.
// Parameters:
// - Variant: GradientType (3 states) or GradientHessianType (5 states)
// - Frequencies: dither angular frequency (rad per unit time); the Gradient-Hessian variant
//   also needs the frequency at which the curvature is observed, usually twice the first
// - Amplitude: dither amplitude (required by the Gradient-Hessian variant)
// - Gains: observer gain L (3 or 5 values); nil selects the dead-beat gain
// - SampleTime: defaults to one iteration
type ObserverConfig struct {
	Variant     EstimatorType
	Frequencies []float64
	Amplitude   float64
	Gains       []float64
	SampleTime  float64
}

// DefaultObserverConfig returns the configuration of a dead-beat observer of the
// given variant for a probe a*sin(ωt).
func DefaultObserverConfig(variant EstimatorType, ω, a float64) ObserverConfig {
	freqs := []float64{ω}
	if variant == GradientHessianType {
		freqs = append(freqs, 2*ω)
	}
	return ObserverConfig{Variant: variant, Frequencies: freqs, Amplitude: a, SampleTime: 1}
}

// Observer is a discrete Luenberger observer of the dithered performance signal
//  u[k] = m + c₁ sin(ω₁k) [+ c₂ cos(ω₂k)]
// modelled as x[k+1] = A x[k], u[k] = C x[k], where A stacks an integrator and one
// harmonic oscillator per frequency. The slope (and curvature) of the cost are read
// from the in-phase components of the oscillators.
type Observer struct {
	variant  EstimatorType
	A        *mat.Dense    // Discrete state transition
	C        *mat.VecDense // Output row, stored as a vector
	L        *mat.VecDense // Observer gain
	scaledA  *mat.Dense    // A/ω₀
	scaledL  *mat.VecDense // L/ω₀
	ω0       float64
	a        float64
	grad     []*Dither // In-phase and quadrature references at ω₁
	curv     []*Dither // In-phase and quadrature references at ω₂
	xHat     *mat.VecDense
	estimate []float64
	step     int
}

// NewObserver returns a new discrete gradient (Hessian) observer.
func NewObserver(cfg ObserverConfig) (*Observer, error) {
	var nFreqs int
	switch cfg.Variant {
	case GradientType:
		nFreqs = 1
	case GradientHessianType:
		nFreqs = 2
	default:
		return nil, invalidParam("observer variant must be %s or %s, got %s", GradientType, GradientHessianType, cfg.Variant)
	}
	n := 1 + 2*nFreqs
	if len(cfg.Frequencies) != nFreqs {
		return nil, invalidParam("%s observer requires %d frequencies, got %d", cfg.Variant, nFreqs, len(cfg.Frequencies))
	}
	if cfg.Gains != nil && len(cfg.Gains) != n {
		return nil, invalidParam("%s observer requires %d gains, got %d", cfg.Variant, n, len(cfg.Gains))
	}
	for i, ω := range cfg.Frequencies {
		if !isFinite(ω) || ω <= 0 {
			return nil, invalidParam("frequency #%d must be positive, got %f", i, ω)
		}
	}
	if cfg.Variant == GradientHessianType && (!isFinite(cfg.Amplitude) || cfg.Amplitude <= 0) {
		return nil, invalidParam("%s observer requires a positive amplitude, got %f", cfg.Variant, cfg.Amplitude)
	}
	if !allFinite(cfg.Gains) {
		return nil, invalidParam("observer gains must be finite")
	}
	ts := cfg.SampleTime
	if ts == 0 {
		ts = 1
	}

	// Continuous design: an integrator for the mean and one oscillator per frequency.
	blocks := []mat.Matrix{mat.NewDense(1, 1, []float64{0})}
	cVals := []float64{1}
	for _, ω := range cfg.Frequencies {
		blocks = append(blocks, Harmonic(ω))
		cVals = append(cVals, 1, 0)
	}
	A, err := Discretize(BlockDiag(blocks...), ts)
	if err != nil {
		if errors.Is(err, ErrInvalidParameter) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	C := mat.NewVecDense(n, cVals)

	var L *mat.VecDense
	if cfg.Gains == nil {
		if L, err = DeadBeatGain(A, C); err != nil {
			return nil, err
		}
	} else {
		L = mat.NewVecDense(n, append([]float64(nil), cfg.Gains...))
		if IsNil(L) {
			return nil, invalidParam("observer gains must not all be zero")
		}
	}
	if err = checkMatDims(A, L, "A", "L", cols2rows); err != nil {
		return nil, err
	}

	o := &Observer{
		variant: cfg.Variant,
		A:       A,
		C:       C,
		L:       L,
		ω0:      cfg.Frequencies[0],
		a:       cfg.Amplitude,
		xHat:    mat.NewVecDense(n, nil),
	}
	// The design is held in ω₀-normalised time and Update scales back by ω₀.
	// The two scalings cancel: x̂ ← A·x̂ + L·ũ, so the dynamics are those of A-LC.
	o.scaledA = mat.NewDense(n, n, nil)
	o.scaledA.Scale(1/o.ω0, A)
	o.scaledL = mat.NewVecDense(n, nil)
	o.scaledL.ScaleVec(1/o.ω0, L)

	// t counts iterations of SampleTime each, like the discrete oscillators.
	sin, _ := NewDither(-1, cfg.Frequencies[0]*ts, 0)
	o.grad = []*Dither{sin, sin.Quadrature()}
	if cfg.Variant == GradientHessianType {
		cos, _ := NewDither(4, cfg.Frequencies[1]*ts, math.Pi/2)
		minusSin, _ := NewDither(-4, cfg.Frequencies[1]*ts, 0)
		o.curv = []*Dither{cos, minusSin}
	}
	o.estimate = make([]float64, nFreqs)
	return o, nil
}

// DeadBeatGain returns the observer gain L placing all the eigenvalues of A-LC at
// zero, computed with Ackermann's formula L = Aⁿ O⁻¹ eₙ, where O is the
// observability matrix of (A, C).
func DeadBeatGain(A mat.Matrix, C mat.Vector) (*mat.VecDense, error) {
	if err := checkMatDims(A, C, "A", "C", cols2rows); err != nil {
		return nil, err
	}
	n, _ := A.Dims()
	O := mat.NewDense(n, n, nil)
	row := mat.VecDenseCopyOf(C)
	for i := 0; i < n; i++ {
		O.SetRow(i, vecData(row))
		// (C Aⁱ)ᵀ = Aᵀ (C Aⁱ⁻¹)ᵀ
		var next mat.VecDense
		next.MulVec(A.T(), row)
		row = &next
	}
	var lu mat.LU
	lu.Factorize(O)
	if cond := lu.Cond(); cond > maxObservabilityCond || math.IsNaN(cond) {
		return nil, invalidParam("(A, C) is not observable (cond(O)=%g)", cond)
	}
	en := mat.NewVecDense(n, nil)
	en.SetVec(n-1, 1)
	var q mat.VecDense
	if err := lu.SolveVecTo(&q, false, en); err != nil {
		return nil, invalidParam("(A, C) is not observable: %s", err)
	}
	var An mat.Dense
	An.Pow(A, n)
	L := mat.NewVecDense(n, nil)
	L.MulVec(&An, &q)
	return L, nil
}

// Update implements the Estimator interface. u is the performance measured at
// iteration t. Non finite samples are rejected and leave the observer untouched.
func (o *Observer) Update(u, t float64) bool {
	if !isFinite(u, t) {
		return false
	}
	// Prediction error
	uTilde := u - mat.Dot(o.C, o.xHat)
	// Correction
	var v mat.VecDense
	v.MulVec(o.scaledA, o.xHat)
	v.AddScaledVec(&v, uTilde, o.scaledL)
	o.xHat.ScaleVec(o.ω0, &v)

	// xHat now predicts the next iteration.
	next := t + 1
	grad := o.grad[0].Update(next)*o.xHat.AtVec(1) + o.grad[1].Update(next)*o.xHat.AtVec(2)
	if o.variant == GradientHessianType {
		curv := o.curv[0].Update(next)*o.xHat.AtVec(3) + o.curv[1].Update(next)*o.xHat.AtVec(4)
		o.estimate[0] = grad / o.a
		o.estimate[1] = curv / (o.a * o.a)
	} else {
		o.estimate[0] = grad
	}
	o.step++
	return true
}

// GetEstimate implements the Estimator interface.
func (o *Observer) GetEstimate(channel int) (float64, error) {
	return getEstimate(o.estimate, channel)
}

// GetAllEstimates implements the Estimator interface.
func (o *Observer) GetAllEstimates() []float64 {
	return append([]float64(nil), o.estimate...)
}

// GetStatesNumber implements the Estimator interface.
func (o *Observer) GetStatesNumber() int {
	return len(o.estimate)
}

// GetStates returns the observer state followed by the estimates:
// [x̂₀, x̂₁, x̂₂, gradient] for the Gradient variant and
// [x̂₀, x̂₁, x̂₂, x̂₃, x̂₄, gradient, curvature] for the Gradient-Hessian variant.
func (o *Observer) GetStates() []float64 {
	return append(vecData(o.xHat), o.estimate...)
}

// State returns a copy of the observer state x̂.
func (o *Observer) State() *mat.VecDense {
	return mat.VecDenseCopyOf(o.xHat)
}

// Reset zeroes the state and the estimates.
func (o *Observer) Reset() {
	o.xHat.Zero()
	for i := range o.estimate {
		o.estimate[i] = 0
	}
	o.step = 0
}

// Type implements the Estimator interface.
func (o *Observer) Type() EstimatorType {
	return o.variant
}

// GetStateTransition returns the A matrix.
func (o *Observer) GetStateTransition() mat.Matrix {
	return o.A
}

// GetOutputMatrix returns the C row.
func (o *Observer) GetOutputMatrix() mat.Matrix {
	return o.C.T()
}

// GetGain returns the L vector.
func (o *Observer) GetGain() mat.Vector {
	return o.L
}

func (o *Observer) String() string {
	return fmt.Sprintf("Observer %s [k=%d]\nA=%v\nC=%v\nL=%v\nx=%v", o.variant, o.step,
		mat.Formatted(o.A, mat.Prefix("  ")), mat.Formatted(o.C.T(), mat.Prefix("  ")),
		mat.Formatted(o.L.T(), mat.Prefix("  ")), mat.Formatted(o.xHat.T(), mat.Prefix("  ")))
}
