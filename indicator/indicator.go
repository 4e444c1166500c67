// Package indicator builds binary activation vectors of interventions and assembles them into
// regression design matrices
package indicator

import (
	"errors"
	"fmt"

	"github.com/npi-lab/go-npiregress/intervention"
	mat_ "github.com/npi-lab/go-npiregress/mat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const LabelIntercept = "intercept"

var (
	ErrLabelExists     = errors.New("indicator label already exists in set")
	ErrHorizonMismatch = errors.New("indicator length does not match set horizon")
	ErrEmptyLabel      = errors.New("indicator label is empty")
	ErrNegativeHorizon = errors.New("negative horizon")
	ErrReservedLabel   = errors.New("indicator label is reserved")
)

// New returns the activation vector of the intervention over days 1..horizon. Entry d-1 is 1
// when the intervention is active on day d and 0 otherwise.
func New(iv intervention.Intervention, horizon int) []float64 {
	if horizon < 0 {
		horizon = 0
	}
	ind := make([]float64, horizon)
	for i := range ind {
		if iv.Active(i + 1) {
			ind[i] = 1.0
		}
	}
	return ind
}

// Indicator is a labeled activation vector
type Indicator struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Set is an ordered collection of indicators sharing the same horizon. Column order of the
// design matrix follows insertion order.
type Set struct {
	horizon    int
	indicators []Indicator
	idx        map[string]int
}

// NewSet creates an empty set of indicators over days 1..horizon
func NewSet(horizon int) (*Set, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon %d, %w", horizon, ErrNegativeHorizon)
	}
	return &Set{
		horizon: horizon,
		idx:     make(map[string]int),
	}, nil
}

// FromInterventions builds a set with one indicator per intervention labeled by its name over
// the horizon of the interventions
func FromInterventions(ivs []intervention.Intervention) (*Set, error) {
	s, err := NewSet(intervention.Horizon(ivs))
	if err != nil {
		return nil, err
	}
	for _, iv := range ivs {
		if err := s.Add(iv.Name(), New(iv, s.horizon)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends an indicator to the set
func (s *Set) Add(label string, data []float64) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if label == LabelIntercept {
		return fmt.Errorf("%s, %w", label, ErrReservedLabel)
	}
	if _, exists := s.idx[label]; exists {
		return fmt.Errorf("%s, %w", label, ErrLabelExists)
	}
	if len(data) != s.horizon {
		return fmt.Errorf("%s has length %d but horizon is %d, %w", label, len(data), s.horizon, ErrHorizonMismatch)
	}
	dst := make([]float64, len(data))
	copy(dst, data)

	s.idx[label] = len(s.indicators)
	s.indicators = append(s.indicators, Indicator{Label: label, Data: dst})
	return nil
}

// Horizon is the number of days every indicator covers
func (s *Set) Horizon() int {
	return s.horizon
}

// Len returns the number of indicators
func (s *Set) Len() int {
	return len(s.indicators)
}

// Labels returns indicator labels in column order
func (s *Set) Labels() []string {
	labels := make([]string, 0, len(s.indicators))
	for _, ind := range s.indicators {
		labels = append(labels, ind.Label)
	}
	return labels
}

// Indicators returns copies of all indicators in column order
func (s *Set) Indicators() []Indicator {
	out := make([]Indicator, 0, len(s.indicators))
	for _, ind := range s.indicators {
		data := make([]float64, len(ind.Data))
		copy(data, ind.Data)
		out = append(out, Indicator{Label: ind.Label, Data: data})
	}
	return out
}

// Matrix returns the design matrix with one row per day and one column per indicator. When
// intercept is set a leading column of ones is added.
func (s *Set) Matrix(intercept bool) (*mat.Dense, error) {
	cols := make([][]float64, 0, len(s.indicators)+1)
	if intercept {
		ones := make([]float64, s.horizon)
		floats.AddConst(1.0, ones)
		cols = append(cols, ones)
	}
	for _, ind := range s.indicators {
		cols = append(cols, ind.Data)
	}
	return mat_.NewDenseFromColumns(cols)
}
