package linearmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// denseFromRows builds a matrix where each inner slice is one row
func denseFromRows(rows [][]float64) *mat.Dense {
	data := make([]float64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), len(rows[0]), data)
}

func testModel(t *testing.T, model *OLSRegression, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol, "intercept")

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol, "coefficients")

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol, "score")
}

// generateBenchData builds nObs days of nFeat overlapping step indicators with a target that is
// an exact combination of them
func generateBenchData(nObs, nFeat int) (mat.Matrix, mat.Matrix, error) {
	data := make([][]float64, nObs)
	for i := range nObs {
		data[i] = make([]float64, nFeat)
	}
	for j := range nFeat {
		start := j * nObs / (nFeat + 1)
		for i := start; i < nObs; i++ {
			data[i][j] = 1.0
		}
	}

	target := make([]float64, nObs)
	for i := range nObs {
		for j := range nFeat {
			target[i] += data[i][j] * math.Log(0.5+float64(j%3)/4.0)
		}
	}

	x := denseFromRows(data)
	y := mat.NewDense(nObs, 1, target)
	return x, y, nil
}
