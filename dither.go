package goesc

import (
	"fmt"
	"math"
)

// Dither is a sinusoidal probe a*sin(ωt+φ). It holds no state besides its
// parameters, which never change after construction.
type Dither struct {
	amplitude, frequency, phase float64
}

// NewDither returns a new dither of amplitude a, angular frequency ω (rad per unit
// of t) and phase φ. All values must be finite.
func NewDither(a, ω, φ float64) (*Dither, error) {
	if !isFinite(a, ω, φ) {
		return nil, invalidParam("dither parameters must be finite (a=%f ω=%f φ=%f)", a, ω, φ)
	}
	return &Dither{a, ω, φ}, nil
}

// Update returns the dither value at time t.
func (d Dither) Update(t float64) float64 {
	return d.amplitude * math.Sin(d.frequency*t+d.phase)
}

// Derivative returns the time derivative of the dither at time t.
func (d Dither) Derivative(t float64) float64 {
	return d.amplitude * d.frequency * math.Cos(d.frequency*t+d.phase)
}

// Quadrature returns the same dither shifted by π/2 (a cosine for a zero phase dither).
func (d Dither) Quadrature() *Dither {
	return &Dither{d.amplitude, d.frequency, d.phase + math.Pi/2}
}

// Amplitude returns the dither amplitude.
func (d Dither) Amplitude() float64 {
	return d.amplitude
}

// Frequency returns the dither angular frequency.
func (d Dither) Frequency() float64 {
	return d.frequency
}

// Phase returns the dither phase.
func (d Dither) Phase() float64 {
	return d.phase
}

func (d Dither) String() string {
	return fmt.Sprintf("%g*sin(%gt%+g)", d.amplitude, d.frequency, d.phase)
}
