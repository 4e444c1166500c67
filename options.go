package npiregress

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/npi-lab/go-npiregress/intervention"
	"github.com/npi-lab/go-npiregress/linearmodel"
)

const (
	DefaultBaselineRate = 2.5
	DefaultPeriod       = 7
)

var (
	ErrInvalidBaseline = errors.New("baseline rate must be positive and finite")
	ErrInvalidPeriod   = errors.New("period must be a positive number of days")
	ErrNoInterventions = errors.New("scenario has no interventions")
	ErrDuplicateLabel  = errors.New("intervention name used more than once")
	ErrInvalidLabel    = errors.New("intervention name is reserved")

	ErrInvalidRankTolerance = errors.New("rank tolerance must be finite and in [0, 1)")
)

// Options configures a single scenario: the baseline growth rate achieved over Period days
// and the interventions modifying it.
type Options struct {
	Name          string                      `json:"name"`
	BaselineRate  float64                     `json:"baseline_rate"`
	Period        int                         `json:"period"`
	Interventions []intervention.Intervention `json:"interventions"`

	// StartDate optionally anchors day 0 on the calendar for plotting
	StartDate time.Time `json:"start_date"`

	// RankTolerance is forwarded to the regression, 0 uses the default
	RankTolerance float64 `json:"rank_tolerance"`
}

// NewDefaultOptions returns a scenario with the default baseline and period and no
// interventions
func NewDefaultOptions() *Options {
	return &Options{
		BaselineRate: DefaultBaselineRate,
		Period:       DefaultPeriod,
	}
}

// Validate checks the options and returns a copy where every unnamed intervention is named
// npi<k> by its 1-based position. The receiver is left untouched.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return nil, ErrNoInterventions
	}
	if o.BaselineRate <= 0 || math.IsNaN(o.BaselineRate) || math.IsInf(o.BaselineRate, 0) {
		return nil, fmt.Errorf("baseline rate %v, %w", o.BaselineRate, ErrInvalidBaseline)
	}
	if o.Period < 1 {
		return nil, fmt.Errorf("period %d, %w", o.Period, ErrInvalidPeriod)
	}
	if linearmodel.ValidRankTolerance(o.RankTolerance) != nil {
		return nil, fmt.Errorf("rank tolerance %v, %w", o.RankTolerance, ErrInvalidRankTolerance)
	}
	if len(o.Interventions) == 0 {
		return nil, ErrNoInterventions
	}

	ivs := make([]intervention.Intervention, len(o.Interventions))
	seen := make(map[string]struct{}, len(o.Interventions))
	for i, iv := range o.Interventions {
		if err := iv.Valid(); err != nil {
			return nil, fmt.Errorf("intervention %d, %w", i+1, err)
		}
		if iv.Name() == "" {
			iv = iv.Named("npi" + strconv.Itoa(i+1))
		}
		if iv.Name() == labelIntercept {
			return nil, fmt.Errorf("%s, %w", iv.Name(), ErrInvalidLabel)
		}
		if _, exists := seen[iv.Name()]; exists {
			return nil, fmt.Errorf("%s, %w", iv.Name(), ErrDuplicateLabel)
		}
		seen[iv.Name()] = struct{}{}
		ivs[i] = iv
	}

	out := *o
	out.Interventions = ivs
	return &out, nil
}

func (o *Options) olsOptions() *linearmodel.OLSOptions {
	return &linearmodel.OLSOptions{
		FitIntercept:  true,
		RankTolerance: o.RankTolerance,
	}
}
