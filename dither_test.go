package goesc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDither(t *testing.T) {
	d, err := NewDither(0.5, math.Pi/4, 0)
	require.NoError(t, err)
	q := d.Quadrature()
	for k := 0; k < 16; k++ {
		tk := float64(k)
		assert.InDelta(t, 0.5*math.Sin(math.Pi/4*tk), d.Update(tk), 1e-15)
		assert.InDelta(t, 0.5*math.Cos(math.Pi/4*tk), q.Update(tk), 1e-12)
		assert.InDelta(t, 0.5*math.Pi/4*math.Cos(math.Pi/4*tk), d.Derivative(tk), 1e-15)
		// sin² + cos² = a²
		assert.InDelta(t, 0.25, d.Update(tk)*d.Update(tk)+q.Update(tk)*q.Update(tk), 1e-12)
	}
	assert.Equal(t, 0.5, d.Amplitude())
	assert.Equal(t, math.Pi/4, d.Frequency())
	assert.Equal(t, math.Pi/2, q.Phase())
	assert.Equal(t, 0.0, d.Phase(), "quadrature must not alter the receiver")
	assert.NotEmpty(t, d.String())
}

func TestDitherIndependence(t *testing.T) {
	d1, _ := NewDither(1, 1, 0)
	d2, _ := NewDither(1, 1, 0)
	first := d1.Update(3)
	d2.Update(42)
	assert.Equal(t, first, d1.Update(3))
}

func TestDitherErrors(t *testing.T) {
	for _, args := range [][3]float64{
		{math.NaN(), 1, 0},
		{1, math.Inf(1), 0},
		{1, 1, math.Inf(-1)},
	} {
		_, err := NewDither(args[0], args[1], args[2])
		require.True(t, errors.Is(err, ErrInvalidParameter), "%v", args)
	}
	_, err := NewDither(-1, 0, 0)
	require.NoError(t, err, "negative amplitude and zero frequency are valid generators")
}
