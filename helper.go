package goesc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IsNil returns whether the provided matrix only has zero values
func IsNil(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// BlockDiag returns the block diagonal matrix made of the provided square blocks.
func BlockDiag(blocks ...mat.Matrix) *mat.Dense {
	n := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		n += r
	}
	out := mat.NewDense(n, n, nil)
	offset := 0
	for _, b := range blocks {
		r, c := b.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				out.Set(offset+i, offset+j, b.At(i, j))
			}
		}
		offset += r
	}
	return out
}

// Clamp projects v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// vecData returns a copy of the raw data of v.
func vecData(v *mat.VecDense) []float64 {
	return mat.Col(nil, 0, v)
}

// allFinite reports whether every value of vals is finite.
func allFinite(vals []float64) bool {
	if len(vals) == 0 {
		return true
	}
	return !floats.HasNaN(vals) && isFinite(floats.Max(vals), floats.Min(vals))
}
