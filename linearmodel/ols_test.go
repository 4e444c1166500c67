package linearmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *OLSOptions
		err      error
		expected *OLSOptions
	}{
		"nil": {nil, nil, NewDefaultOLSOptions()},
		"valid": {
			&OLSOptions{
				FitIntercept:  true,
				RankTolerance: 1e-8,
			}, nil,
			&OLSOptions{
				FitIntercept:  true,
				RankTolerance: 1e-8,
			},
		},
		"default tolerance": {
			&OLSOptions{
				FitIntercept: false,
			}, nil,
			&OLSOptions{
				FitIntercept:  false,
				RankTolerance: DefaultRankTolerance,
			},
		},
		"negative tolerance": {
			&OLSOptions{
				RankTolerance: -1,
			}, ErrInvalidTolerance, nil,
		},
		"tolerance of one": {
			&OLSOptions{
				RankTolerance: 1,
			}, ErrInvalidTolerance, nil,
		},
		"infinite tolerance": {
			&OLSOptions{
				RankTolerance: math.Inf(1),
			}, ErrInvalidTolerance, nil,
		},
		"nan tolerance": {
			&OLSOptions{
				RankTolerance: math.NaN(),
			}, ErrInvalidTolerance, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestOLSRegression(t *testing.T) {
	tol := 1e-5
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *OLSOptions
		intercept float64
		coef      []float64
	}{
		"ols model intercept": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"ols model no intercept": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: &OLSOptions{
				FitIntercept: false,
			},
			intercept: 0.0,
			coef:      []float64{2.0, 3.0, 4.0},
		},
		"piecewise indicators": {
			x: [][]float64{
				{0, 0},
				{0, 0},
				{1, 0},
				{1, 0},
				{1, 1},
				{1, 1},
			},
			y:         []float64{0.13, 0.13, 0.03, 0.03, -0.07, -0.07},
			intercept: 0.13,
			coef:      []float64{-0.1, -0.1},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x := denseFromRows(td.x)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(td.opt)
			require.Nil(t, err)

			testModel(t, model, x, y, td.intercept, td.coef, tol)
		})
	}
}

func TestOLSRegressionLeastSquares(t *testing.T) {
	// y = 1 + 2x with symmetric noise on each pair of observations
	x := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	y := mat.NewDense(4, 1, []float64{0.5, 1.5, 2.5, 3.5})

	model, err := NewOLSRegression(nil)
	require.NoError(t, err)
	require.NoError(t, model.Fit(x, y))

	assert.InDelta(t, 1.0, model.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{2.0}, model.Coef(), 1e-9)

	r2, err := model.Score(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r2, 1e-9)
}

func TestOLSRegressionScoreConstantTarget(t *testing.T) {
	testData := map[string]struct {
		opt *OLSOptions
		r2  float64
		err error
	}{
		"fitted exactly by intercept": {
			opt: NewDefaultOLSOptions(),
			r2:  1.0,
		},
		"not fitted without intercept": {
			opt: &OLSOptions{FitIntercept: false},
			err: ErrUndefinedScore,
		},
	}

	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0.7, 0.7, 0.7})
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewOLSRegression(td.opt)
			require.NoError(t, err)
			require.NoError(t, model.Fit(x, y))

			r2, err := model.Score(x, y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.r2, r2)
		})
	}
}

func TestOLSRegressionSingular(t *testing.T) {
	testData := map[string]struct {
		x   [][]float64
		y   []float64
		err error
	}{
		"duplicate columns": {
			x: [][]float64{
				{0, 0},
				{1, 1},
				{1, 1},
				{0, 0},
			},
			y:   []float64{1, 2, 3, 4},
			err: ErrSingularDesign,
		},
		"column equal to intercept": {
			x: [][]float64{
				{1},
				{1},
				{1},
			},
			y:   []float64{1, 2, 3},
			err: ErrSingularDesign,
		},
		"fewer rows than predictors": {
			x: [][]float64{
				{0, 1},
				{1, 0},
			},
			y:   []float64{1, 2},
			err: ErrSingularDesign,
		},
		"non-finite target": {
			x: [][]float64{
				{0},
				{1},
				{1},
			},
			y:   []float64{1, math.Inf(-1), math.NaN()},
			err: ErrNonFiniteTarget,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x := denseFromRows(td.x)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(nil)
			require.Nil(t, err)

			assert.ErrorIs(t, model.Fit(x, y), td.err)
			assert.Empty(t, model.Coef())

			_, err = model.Predict(x)
			assert.ErrorIs(t, err, ErrUntrained)
		})
	}
}

func TestOLSRegressionInputErrors(t *testing.T) {
	model, err := NewOLSRegression(nil)
	require.NoError(t, err)

	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	assert.ErrorIs(t, model.Fit(nil, x), ErrNoTrainingMatrix)
	assert.ErrorIs(t, model.Fit(x, nil), ErrNoTargetMatrix)
	assert.ErrorIs(t, model.Fit(x, mat.NewDense(2, 1, []float64{1, 2})), ErrTargetLenMismatch)

	require.NoError(t, model.Fit(x, mat.NewDense(3, 1, []float64{1, 3, 5})))
	_, err = model.Predict(mat.NewDense(3, 2, []float64{0, 1, 2, 3, 4, 5}))
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)

	_, err = model.Score(x, mat.NewDense(2, 1, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrTargetLenMismatch)
}

func BenchmarkOLSRegression(b *testing.B) {
	x, y, err := generateBenchData(1000, 100)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		model, err := NewOLSRegression(
			&OLSOptions{
				FitIntercept: false,
			},
		)
		if err != nil {
			b.Error(err)
			continue
		}
		if err := model.Fit(x, y); err != nil {
			b.Error(err)
			continue
		}
	}
}
