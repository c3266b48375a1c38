package goesc

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

// StepKind describes how the last parameter update was computed.
type StepKind uint8

const (
	// HoldStep leaves the parameter unchanged (warm up or rejected sample).
	HoldStep StepKind = iota + 1
	// GradientStep is θ ← θ - k*g, used by single channel estimators.
	GradientStep
	// NewtonStep is θ ← θ - k*g/h.
	NewtonStep
	// FallbackStep is a gradient step taken because the curvature was unsafe.
	FallbackStep
)

func (s StepKind) String() string {
	switch s {
	case HoldStep:
		return "hold"
	case GradientStep:
		return "gradient"
	case NewtonStep:
		return "newton"
	case FallbackStep:
		return "fallback"
	default:
		return "none"
	}
}

// ParseStepKind returns the StepKind matching its String representation.
func ParseStepKind(s string) (StepKind, error) {
	for _, k := range []StepKind{0, HoldStep, GradientStep, NewtonStep, FallbackStep} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, invalidParam("unknown step kind %q", s)
}

// PersonaliserConfig parametrises a Personaliser.
// Parameters:
// - Initial: θ₀, within [Min, Max]
// - Min, Max: bounds of θ
// - Gain: integrator gain k
// - Probe: dither added to θ before it is applied (nil disables probing)
// - MinCurvature: smallest curvature estimate accepted for a Newton step
// - MaxStep: bound on |Δθ| per iteration (0 disables it)
// - Warmup: number of samples fed to the estimator before θ starts moving
type PersonaliserConfig struct {
	Initial, Min, Max float64
	Gain              float64
	Probe             *Dither
	MinCurvature      float64
	MaxStep           float64
	Warmup            int
}

// DefaultPersonaliserConfig returns a tuned configuration for a probe of angular
// frequency π/4 rad/iteration and amplitude 0.2, which is the default dead-beat
// observer design.
func DefaultPersonaliserConfig(θ0, lo, hi float64) PersonaliserConfig {
	return PersonaliserConfig{
		Initial:      θ0,
		Min:          lo,
		Max:          hi,
		Gain:         0.1,
		Probe:        &Dither{DefaultAmplitude, DefaultFrequency, 0},
		MinCurvature: 0.1,
		MaxStep:      0.02,
		Warmup:       5,
	}
}

const (
	// DefaultFrequency is the default probe angular frequency (rad/iteration).
	DefaultFrequency = math.Pi / 4
	// DefaultAmplitude is the default probe amplitude.
	DefaultAmplitude = 0.2
)

// Personaliser closes the loop between a per-iteration performance J and a bounded
// parameter θ (e.g. a synergy gain). It owns its estimator.
type Personaliser struct {
	est       Estimator
	cfg       PersonaliserConfig
	θ         float64
	applied   float64
	samples   int
	fallbacks int
	lastStep  StepKind
	log       logr.Logger
}

// NewPersonaliser returns a new Personaliser driving est.
func NewPersonaliser(est Estimator, cfg PersonaliserConfig) (*Personaliser, error) {
	if est == nil {
		return nil, invalidParam("personaliser requires an estimator")
	}
	if !isFinite(cfg.Initial, cfg.Min, cfg.Max, cfg.Gain, cfg.MinCurvature, cfg.MaxStep) {
		return nil, invalidParam("personaliser parameters must be finite")
	}
	if cfg.Min >= cfg.Max {
		return nil, invalidParam("bounds must satisfy min < max, got [%f, %f]", cfg.Min, cfg.Max)
	}
	if cfg.Initial < cfg.Min || cfg.Initial > cfg.Max {
		return nil, invalidParam("initial value %f not within [%f, %f]", cfg.Initial, cfg.Min, cfg.Max)
	}
	if cfg.Gain <= 0 {
		return nil, invalidParam("gain must be positive, got %f", cfg.Gain)
	}
	if cfg.MinCurvature <= 0 {
		return nil, invalidParam("minimum curvature must be positive, got %f", cfg.MinCurvature)
	}
	if cfg.MaxStep < 0 {
		return nil, invalidParam("maximum step must be non negative, got %f", cfg.MaxStep)
	}
	if cfg.Warmup < 0 {
		return nil, invalidParam("warm up must be non negative, got %d", cfg.Warmup)
	}
	p := &Personaliser{est: est, cfg: cfg, θ: cfg.Initial, log: logr.Discard()}
	p.applied = p.valueAt(0)
	return p, nil
}

// SetLogger sets the logger used to report fallbacks and rejected samples.
func (p *Personaliser) SetLogger(log logr.Logger) {
	p.log = log
}

// UpdateParameter feeds the performance J measured at iteration t to the estimator,
// updates θ and returns the (probed) value to apply during iteration t+1.
// It must be called once per iteration, in order.
func (p *Personaliser) UpdateParameter(J, t float64) float64 {
	if !p.est.Update(J, t) {
		p.log.V(1).Info("performance sample rejected", "t", t, "J", J)
		p.lastStep = HoldStep
		return p.apply(t + 1)
	}
	p.samples++
	if p.samples <= p.cfg.Warmup {
		p.lastStep = HoldStep
		return p.apply(t + 1)
	}

	estimates := p.est.GetAllEstimates()
	g := estimates[0]
	step, kind := p.cfg.Gain*g, GradientStep
	if len(estimates) > 1 {
		if h := estimates[1]; isFinite(h) && h >= p.cfg.MinCurvature {
			step, kind = p.cfg.Gain*g/h, NewtonStep
		} else {
			kind = FallbackStep
			p.fallbacks++
			p.log.V(1).Info("unsafe curvature, falling back to a gradient step", "t", t, "curvature", h, "gradient", g)
		}
	}
	if !isFinite(step) {
		p.log.V(1).Info("non finite step discarded", "t", t, "gradient", g)
		p.lastStep = HoldStep
		return p.apply(t + 1)
	}
	if p.cfg.MaxStep > 0 {
		step = Clamp(step, -p.cfg.MaxStep, p.cfg.MaxStep)
	}
	p.θ = Clamp(p.θ-step, p.cfg.Min, p.cfg.Max)
	p.lastStep = kind
	return p.apply(t + 1)
}

func (p *Personaliser) apply(t float64) float64 {
	p.applied = p.valueAt(t)
	return p.applied
}

// valueAt returns θ with the probe at time t, projected in the bounds.
func (p *Personaliser) valueAt(t float64) float64 {
	v := p.θ
	if p.cfg.Probe != nil {
		v += p.cfg.Probe.Update(t)
	}
	return Clamp(v, p.cfg.Min, p.cfg.Max)
}

// Parameter returns the current (unprobed) value of θ.
func (p *Personaliser) Parameter() float64 {
	return p.θ
}

// Applied returns the value to apply at the next iteration, as last returned by
// UpdateParameter (or the value for iteration 0 after construction or Reset).
func (p *Personaliser) Applied() float64 {
	return p.applied
}

// GetStates returns the raw estimator states, as documented by the estimator.
func (p *Personaliser) GetStates() []float64 {
	return p.est.GetStates()
}

// Estimator returns the embedded estimator.
func (p *Personaliser) Estimator() Estimator {
	return p.est
}

// LastStep returns how the last update was computed.
func (p *Personaliser) LastStep() StepKind {
	return p.lastStep
}

// Fallbacks returns the number of curvature fallbacks since construction or Reset.
func (p *Personaliser) Fallbacks() int {
	return p.fallbacks
}

// Iteration returns the number of accepted samples.
func (p *Personaliser) Iteration() int {
	return p.samples
}

// Bounds returns [Min, Max].
func (p *Personaliser) Bounds() (float64, float64) {
	return p.cfg.Min, p.cfg.Max
}

// Reset restores θ₀ and resets the estimator.
func (p *Personaliser) Reset() {
	p.est.Reset()
	p.θ = p.cfg.Initial
	p.samples = 0
	p.fallbacks = 0
	p.lastStep = 0
	p.applied = p.valueAt(0)
}

func (p *Personaliser) String() string {
	return fmt.Sprintf("Personaliser [k=%d] θ=%g ∈ [%g, %g] last=%s\n%s", p.samples, p.θ, p.cfg.Min, p.cfg.Max, p.lastStep, p.est)
}
