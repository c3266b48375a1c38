package goesc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestImplementsNoise(t *testing.T) {
	implements := func(Noise) {}
	implements(Noiseless{})
	implements(BatchNoise{})
	implements(new(AWGN))
}

func TestQuadraticMap(t *testing.T) {
	m := QuadraticMap{Optimum: 2, Curvature: 0.5, Peak: 1}
	assert.Equal(t, 1.0, m.Evaluate(2))
	assert.Equal(t, 0.5, m.Evaluate(3))
	assert.Equal(t, 0.5, m.Evaluate(1))
	assert.NotEmpty(t, m.String())
}

func TestAWGN(t *testing.T) {
	n, err := NewAWGN(0.5, 42)
	require.NoError(t, err)
	samples := make([]float64, 20000)
	for k := range samples {
		samples[k] = n.Measurement(k)
	}
	assert.InDelta(t, 0, stat.Mean(samples, nil), 0.02)
	assert.InDelta(t, 0.5, stat.StdDev(samples, nil), 0.02)
	assert.Equal(t, 0.25, n.Variance())

	// Same seed, same sequence.
	n1, _ := NewAWGN(0.5, 7)
	n2, _ := NewAWGN(0.5, 7)
	for k := 0; k < 10; k++ {
		assert.Equal(t, n1.Measurement(k), n2.Measurement(k))
	}

	_, err = NewAWGN(-1, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewAWGN(math.NaN(), 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestNoiselessAndBatch(t *testing.T) {
	assert.Zero(t, Noiseless{}.Measurement(12))
	b := BatchNoise{0.1, -0.2}
	assert.Equal(t, -0.2, b.Measurement(1))
	assertPanic(t, func() {
		b.Measurement(2)
	})
}
