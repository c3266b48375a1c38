package goesc

import (
	"fmt"
	"math"
)

// DemodulationConfig parametrises a Demodulation estimator.
type DemodulationConfig struct {
	Dither         *Dither // Demodulation reference
	HighPassCutoff float64 // rad per unit of t
	HighPassGain   float64
	LowPassCutoff  float64 // rad per unit of t
	LowPassGain    float64
	SampleTime     float64
}

// DefaultDemodulationConfig returns a configuration demodulating a probe of angular
// frequency ω. The reference is phase shifted by π so that the estimate is the
// gradient of the cost -J.
func DefaultDemodulationConfig(ω float64) DemodulationConfig {
	return DemodulationConfig{
		Dither:         &Dither{1, ω, math.Pi},
		HighPassCutoff: 0.5,
		HighPassGain:   1,
		LowPassCutoff:  0.1,
		LowPassGain:    1,
		SampleTime:     1,
	}
}

// Demodulation is a synchronous demodulation gradient estimator:
//  x[k] = LowPass(dither(t_k) * HighPass(u[k]))
// For a probe a*sin(ωt) and a reference of unit amplitude, x converges to
// a/2 * ∂(-J)/∂θ times the low pass gain.
type Demodulation struct {
	dither   *Dither
	highPass *HighPassFilter
	lowPass  *LowPassFilter
	estimate float64
}

// NewDemodulation returns a new demodulation estimator.
func NewDemodulation(cfg DemodulationConfig) (*Demodulation, error) {
	if cfg.Dither == nil {
		return nil, invalidParam("demodulation requires a dither")
	}
	if cfg.Dither.Frequency() == 0 {
		return nil, invalidParam("demodulation dither frequency must be non zero")
	}
	hp, err := NewHighPassFilter(cfg.HighPassCutoff, cfg.HighPassGain, cfg.SampleTime)
	if err != nil {
		return nil, err
	}
	lp, err := NewLowPassFilter(cfg.LowPassCutoff, cfg.LowPassGain, cfg.SampleTime)
	if err != nil {
		return nil, err
	}
	return &Demodulation{dither: cfg.Dither, highPass: hp, lowPass: lp}, nil
}

// Update implements the Estimator interface. It never rejects a sample.
func (e *Demodulation) Update(u, t float64) bool {
	e.estimate = e.lowPass.Update(e.dither.Update(t) * e.highPass.Update(u))
	return true
}

// GetEstimate implements the Estimator interface.
func (e *Demodulation) GetEstimate(channel int) (float64, error) {
	return getEstimate([]float64{e.estimate}, channel)
}

// GetAllEstimates implements the Estimator interface.
func (e *Demodulation) GetAllEstimates() []float64 {
	return []float64{e.estimate}
}

// GetStatesNumber implements the Estimator interface.
func (e *Demodulation) GetStatesNumber() int {
	return 1
}

// GetStates returns [high pass state, estimate].
func (e *Demodulation) GetStates() []float64 {
	return []float64{e.highPass.State(), e.estimate}
}

// Reset clears the estimate and both filter states.
func (e *Demodulation) Reset() {
	e.highPass.Reset()
	e.lowPass.Reset()
	e.estimate = 0
}

// Type implements the Estimator interface.
func (e *Demodulation) Type() EstimatorType {
	return DemodulationType
}

func (e *Demodulation) String() string {
	return fmt.Sprintf("Demodulation{d=%s %s %s}", e.dither, e.highPass, e.lowPass)
}
