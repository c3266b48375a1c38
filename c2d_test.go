package goesc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDiscretizeDoubleIntegrator(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	F, err := Discretize(A, 0.1)
	require.NoError(t, err)
	Fexp := mat.NewDense(2, 2, []float64{1, 0.1, 0, 1})
	if !mat.EqualApprox(F, Fexp, 1e-12) {
		t.Fatal("F incorrectly computed")
	}
}

func TestDiscretizeHarmonic(t *testing.T) {
	ω := 0.7
	F, err := Discretize(Harmonic(ω), 1)
	require.NoError(t, err)
	Fexp := mat.NewDense(2, 2, []float64{math.Cos(ω), math.Sin(ω), -math.Sin(ω), math.Cos(ω)})
	if !mat.EqualApprox(F, Fexp, 1e-12) {
		t.Fatalf("rotation incorrectly computed:\n%v", mat.Formatted(F, mat.Prefix("  ")))
	}
}

func TestDiscretizeNyquist(t *testing.T) {
	F, err := Discretize(Harmonic(2), 2)
	require.Error(t, err)
	require.NotNil(t, F, "the aliased transition is still returned")
}

func TestDiscretizeErrors(t *testing.T) {
	_, err := Discretize(mat.NewDense(2, 3, nil), 1)
	require.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = Discretize(Harmonic(1), 0)
	require.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = Discretize(Harmonic(1), math.NaN())
	require.True(t, errors.Is(err, ErrInvalidParameter))
}
