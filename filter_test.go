package goesc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplementsFilter(t *testing.T) {
	implements := func(Filter) {}
	implements(new(LowPassFilter))
	implements(new(HighPassFilter))
}

func TestFilterConstantInput(t *testing.T) {
	hp, err := NewHighPassFilter(0.5, 2, 1)
	require.NoError(t, err)
	lp, err := NewLowPassFilter(0.5, 2, 1)
	require.NoError(t, err)
	var yh, yl float64
	for k := 0; k < 200; k++ {
		yh = hp.Update(3)
		yl = lp.Update(3)
	}
	assert.InDelta(t, 0, yh, 1e-9, "high pass must reject DC")
	assert.InDelta(t, 6, yl, 1e-9, "low pass must converge to the scaled constant")
	assert.Equal(t, yh, hp.Output())
	assert.Equal(t, yl, lp.Output())
	assert.Equal(t, yl, lp.State())
	assert.InDelta(t, 3, hp.State(), 1e-9)
}

func TestHighPassDifferenceEquation(t *testing.T) {
	ωc, L, ts := 0.3, 1.5, 0.5
	hp, err := NewHighPassFilter(ωc, L, ts)
	require.NoError(t, err)
	var yPrev, uPrev float64
	for k := 0; k < 100; k++ {
		u := math.Sin(0.9*float64(k)) + 0.1*float64(k)
		exp := (yPrev + L*(u-uPrev)) / (1 + ωc*ts)
		got := hp.Update(u)
		require.InDelta(t, exp, got, 1e-9, "k=%d", k)
		yPrev, uPrev = exp, u
	}
}

func TestFilterPassBand(t *testing.T) {
	// A sinusoid well above the cutoff goes through the high pass and is
	// attenuated by the low pass.
	hp, _ := NewHighPassFilter(0.05, 1, 1)
	lp, _ := NewLowPassFilter(0.05, 1, 1)
	var maxH, maxL float64
	for k := 0; k < 400; k++ {
		u := math.Sin(math.Pi / 2 * float64(k))
		h, l := hp.Update(u), lp.Update(u)
		if k > 300 {
			maxH = math.Max(maxH, math.Abs(h))
			maxL = math.Max(maxL, math.Abs(l))
		}
	}
	assert.Greater(t, maxH, 0.9)
	assert.Less(t, maxL, 0.1)
}

func TestFilterReset(t *testing.T) {
	hp, _ := NewHighPassFilter(1, 1, 1)
	lp, _ := NewLowPassFilter(1, 1, 1)
	for k := 0; k < 5; k++ {
		hp.Update(float64(k))
		lp.Update(float64(k))
	}
	hp.Reset()
	lp.Reset()
	assert.Zero(t, hp.State())
	assert.Zero(t, hp.Output())
	assert.Zero(t, lp.State())
	assert.NotEmpty(t, hp.String())
	assert.NotEmpty(t, lp.String())
}

func TestFilterErrors(t *testing.T) {
	for _, tc := range []struct {
		name         string
		ωc, gain, ts float64
	}{
		{"zero cutoff", 0, 1, 1},
		{"negative cutoff", -1, 1, 1},
		{"zero sample time", 1, 1, 0},
		{"negative sample time", 1, 1, -0.1},
		{"NaN gain", 1, math.NaN(), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHighPassFilter(tc.ωc, tc.gain, tc.ts)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
			_, err = NewLowPassFilter(tc.ωc, tc.gain, tc.ts)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
		})
	}
}
