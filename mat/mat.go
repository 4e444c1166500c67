// Package mat has helpers to build gonum dense matrices from column slices
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrRowMismatch = errors.New("row size mismatch")

// NewDenseFromColumns builds an m x n matrix where each inner slice is one column
func NewDenseFromColumns(cols [][]float64) (*mat.Dense, error) {
	n := len(cols)

	m := -1
	for j, col := range cols {
		if m >= 0 && len(col) != m {
			return nil, fmt.Errorf("at column %d, %w", j, ErrRowMismatch)
		}
		if m < 0 {
			m = len(col)
		}
	}
	if n == 0 || m <= 0 {
		return nil, mat.ErrZeroLength
	}

	data := make([]float64, m*n)
	for j, col := range cols {
		for i, v := range col {
			data[i*n+j] = v
		}
	}
	return mat.NewDense(m, n, data), nil
}
