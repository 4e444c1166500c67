// Package stats holds diagnostics over the regression design
package stats

import (
	"errors"
	"math"

	"github.com/npi-lab/go-npiregress/linearmodel"
	mat_ "github.com/npi-lab/go-npiregress/mat"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
)

// VarianceInflationFactor regresses each feature on the remaining ones plus an intercept and
// returns 1/(1-R2) in input order. A feature fully explained by the others, including one that
// is constant over the horizon, has an infinite factor.
func VarianceInflationFactor(features [][]float64) ([]float64, error) {
	n := len(features)
	if n < 2 {
		return nil, ErrMinimumFeatures
	}
	m := len(features[0])
	for _, feature := range features {
		if len(feature) < 2 {
			return nil, ErrFeatureLen
		}
		if len(feature) != m {
			return nil, ErrFeatureLenMismatch
		}
	}

	vif := make([]float64, n)
	others := make([][]float64, 0, n-1)
	for i, feature := range features {
		others = others[:0]
		for j, other := range features {
			if j != i {
				others = append(others, other)
			}
		}
		x, err := mat_.NewDenseFromColumns(others)
		if err != nil {
			return nil, err
		}
		y := mat.NewDense(m, 1, append([]float64(nil), feature...))

		model, err := linearmodel.NewOLSRegression(linearmodel.NewDefaultOLSOptions())
		if err != nil {
			return nil, err
		}
		if err := model.Fit(x, y); err != nil {
			if errors.Is(err, linearmodel.ErrSingularDesign) {
				vif[i] = math.Inf(1)
				continue
			}
			return nil, err
		}
		r2, err := model.Score(x, y)
		if err != nil {
			return nil, err
		}
		if r2 >= 1 {
			vif[i] = math.Inf(1)
			continue
		}
		vif[i] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
