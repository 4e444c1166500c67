package linearmodel

import "errors"

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrSingularDesign     = errors.New("design matrix is rank deficient")
	ErrNonFiniteTarget    = errors.New("target contains non-finite values")
	ErrNonFiniteFeature   = errors.New("design matrix contains non-finite values")
	ErrUntrained          = errors.New("model has not been fit")
	ErrInvalidTolerance   = errors.New("rank tolerance must be finite and in [0, 1)")
	ErrUndefinedScore     = errors.New("target has no variance and is not fitted exactly")
)
