package goesc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCheckDims(t *testing.T) {
	i22 := mat.NewDense(2, 2, nil)
	i33 := mat.NewDense(3, 3, nil)
	methods := []DimensionAgreement{rows2cols, cols2rows, cols2cols, rows2rows, rowsAndcols}
	for _, meth := range methods {
		if err := checkMatDims(i22, i22, "i22", "i22", meth); err != nil {
			t.Fatalf("method %+v fails: %s", meth, err)
		}
		err := checkMatDims(i22, i33, "i22", "i33", meth)
		if err == nil {
			t.Fatalf("method %+v does not error when using i22 and i33 ", meth)
		}
		require.True(t, errors.Is(err, ErrInvalidParameter))
	}
}

func TestCheckDimsVector(t *testing.T) {
	row := mat.NewDense(1, 3, nil)
	x := mat.NewVecDense(3, nil)
	require.NoError(t, checkMatDims(row, x, "C", "x", cols2rows))
	require.Error(t, checkMatDims(row, mat.NewVecDense(5, nil), "C", "x", cols2rows))
}
