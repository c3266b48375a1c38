package goesc

import "fmt"

// Filter is a discrete first order filter. Update must be called once per
// sample, without skipping any, since the filter relies on a fixed time base.
type Filter interface {
	Update(u float64) float64 // Returns y[k] given u[k]
	Output() float64          // Returns the last output
	State() float64           // Returns the persistent scalar
	Reset()
	String() string
}

// filterParams are shared by both filters.
type filterParams struct {
	ωc, gain, ts float64
}

func newFilterParams(kind string, ωc, gain, ts float64) (filterParams, error) {
	if !isFinite(ωc, gain, ts) {
		return filterParams{}, invalidParam("%s filter parameters must be finite", kind)
	}
	if ωc <= 0 {
		return filterParams{}, invalidParam("%s filter cutoff must be positive, got %f", kind, ωc)
	}
	if ts <= 0 {
		return filterParams{}, invalidParam("%s filter sample time must be positive, got %f", kind, ts)
	}
	return filterParams{ωc, gain, ts}, nil
}

// LowPassFilter is the backward Euler discretisation of L*ωc/(s+ωc):
//  y[k] = (y[k-1] + L*ωc*ts*u[k]) / (1 + ωc*ts)
type LowPassFilter struct {
	filterParams
	y float64
}

// NewLowPassFilter returns a new low pass filter with cutoff ωc (rad per unit of time),
// DC gain L and sample time ts.
func NewLowPassFilter(ωc, gain, ts float64) (*LowPassFilter, error) {
	p, err := newFilterParams("low pass", ωc, gain, ts)
	if err != nil {
		return nil, err
	}
	return &LowPassFilter{filterParams: p}, nil
}

// Update implements the Filter interface.
func (f *LowPassFilter) Update(u float64) float64 {
	h := f.ωc * f.ts
	f.y = (f.y + f.gain*h*u) / (1 + h)
	return f.y
}

// Output implements the Filter interface.
func (f *LowPassFilter) Output() float64 {
	return f.y
}

// State implements the Filter interface.
func (f *LowPassFilter) State() float64 {
	return f.y
}

// Reset implements the Filter interface.
func (f *LowPassFilter) Reset() {
	f.y = 0
}

func (f *LowPassFilter) String() string {
	return fmt.Sprintf("LowPass{ωc=%g L=%g ts=%g y=%g}", f.ωc, f.gain, f.ts, f.y)
}

// HighPassFilter is the backward Euler discretisation of L*s/(s+ωc):
//  y[k] = (y[k-1] + L*(u[k] - u[k-1])) / (1 + ωc*ts)
// It is computed as y[k] = L*(u[k] - z[k]) where z is its complementary low pass
// state, which is the only value kept between samples.
type HighPassFilter struct {
	filterParams
	z, y float64
}

// NewHighPassFilter returns a new high pass filter with cutoff ωc (rad per unit of
// time), high frequency gain L and sample time ts.
func NewHighPassFilter(ωc, gain, ts float64) (*HighPassFilter, error) {
	p, err := newFilterParams("high pass", ωc, gain, ts)
	if err != nil {
		return nil, err
	}
	return &HighPassFilter{filterParams: p}, nil
}

// Update implements the Filter interface.
func (f *HighPassFilter) Update(u float64) float64 {
	h := f.ωc * f.ts
	f.z = (f.z + h*u) / (1 + h)
	f.y = f.gain * (u - f.z)
	return f.y
}

// Output implements the Filter interface.
func (f *HighPassFilter) Output() float64 {
	return f.y
}

// State implements the Filter interface.
func (f *HighPassFilter) State() float64 {
	return f.z
}

// Reset implements the Filter interface.
func (f *HighPassFilter) Reset() {
	f.z = 0
	f.y = 0
}

func (f *HighPassFilter) String() string {
	return fmt.Sprintf("HighPass{ωc=%g L=%g ts=%g z=%g}", f.ωc, f.gain, f.ts, f.z)
}
