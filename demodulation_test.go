package goesc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemodulationGradientSign(t *testing.T) {
	ω, a, θstar := math.Pi/4, 0.1, 1.2
	for _, θ := range []float64{0.2, 1.0, 2.2} {
		e, err := NewDemodulation(DefaultDemodulationConfig(ω))
		require.NoError(t, err)
		m := QuadraticMap{Optimum: θstar, Curvature: 1}
		for k := 0; k < 400; k++ {
			tk := float64(k)
			require.True(t, e.Update(m.Evaluate(θ+a*math.Sin(ω*tk)), tk))
			if k < 300 {
				continue
			}
			est, err := e.GetEstimate(0)
			require.NoError(t, err)
			// The estimate is proportional to the cost gradient 2(θ-θ*), scaled by the
			// probe amplitude, the reference amplitude and the filters' gains.
			ratio := est / (a * (θ - θstar))
			assert.True(t, ratio > 0.5 && ratio < 0.8, "θ=%f k=%d ratio=%f", θ, k, ratio)
		}
	}
}

func TestDemodulationContract(t *testing.T) {
	e, err := NewDemodulation(DefaultDemodulationConfig(1))
	require.NoError(t, err)
	assert.Equal(t, 1, e.GetStatesNumber())
	assert.Equal(t, DemodulationType, e.Type())
	for k := 0; k < 10; k++ {
		require.True(t, e.Update(float64(k*k), float64(k)))
	}
	_, err = e.GetEstimate(1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = e.GetEstimate(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	est, err := e.GetEstimate(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{est}, e.GetAllEstimates())
	states := e.GetStates()
	require.Len(t, states, 2)
	assert.Equal(t, est, states[1])
	assert.NotEmpty(t, e.String())
}

func TestDemodulationReset(t *testing.T) {
	fresh, _ := NewDemodulation(DefaultDemodulationConfig(1))
	e, _ := NewDemodulation(DefaultDemodulationConfig(1))
	for k := 0; k < 10; k++ {
		e.Update(math.Cos(float64(k)), float64(k))
	}
	e.Reset()
	assert.Equal(t, fresh.GetStates(), e.GetStates())
	// After a reset the estimator replays identically.
	for k := 0; k < 10; k++ {
		e.Update(math.Cos(float64(k)), float64(k))
		fresh.Update(math.Cos(float64(k)), float64(k))
	}
	assert.Equal(t, fresh.GetStates(), e.GetStates())
}

func TestDemodulationErrors(t *testing.T) {
	cfg := DefaultDemodulationConfig(1)
	cfg.Dither = nil
	_, err := NewDemodulation(cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	cfg = DefaultDemodulationConfig(0)
	_, err = NewDemodulation(cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	cfg = DefaultDemodulationConfig(1)
	cfg.LowPassCutoff = 0
	_, err = NewDemodulation(cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	cfg = DefaultDemodulationConfig(1)
	cfg.SampleTime = -1
	_, err = NewDemodulation(cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
