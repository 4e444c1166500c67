// Package series builds the day-indexed sequences of an epidemic simulation: the growth-rate
// schedule, the daily and cumulative case counts and their log differences.
package series

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/npi-lab/go-npiregress/intervention"
	"github.com/npi-lab/go-npiregress/rate"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidPeriod   = errors.New("period must be a positive number of days")
	ErrInvalidBaseline = errors.New("baseline rate must be positive and finite")
)

// Seed is the case count on day 0
const Seed = 1.0

// Series is a sequence of values indexed by day
type Series []float64

// Copy returns an independent copy of the series
func (s Series) Copy() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// CumSum returns the running total of the series, out[k] = s[0] + ... + s[k]
func (s Series) CumSum() Series {
	out := make(Series, len(s))
	if len(s) == 0 {
		return out
	}
	floats.CumSum(out, s)
	return out
}

// LogDiff returns the first difference of the natural log of the series,
// out[k] = log(s[k+1]) - log(s[k]), with one fewer element than the input. Zero values yield
// -Inf or NaN which callers are expected to check for.
func (s Series) LogDiff() Series {
	if len(s) < 2 {
		return Series{}
	}
	out := make(Series, len(s)-1)
	for k := 0; k < len(out); k++ {
		out[k] = math.Log(s[k+1]) - math.Log(s[k])
	}
	return out
}

// Finite reports whether every value is neither NaN nor infinite
func (s Series) Finite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes NaN and infinite values as null
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(s))
	for i := range s {
		if math.IsNaN(s[i]) || math.IsInf(s[i], 0) {
			continue
		}
		out[i] = &s[i]
	}
	return json.Marshal(out)
}

// GrowthSchedule returns the one-day growth rate of each day 1..horizon where horizon is the
// last day covered by any intervention. Element k holds day k+1. Each day starts at baseline,
// is multiplied by the factor of every intervention active that day and is then scaled from a
// per-period to a per-day rate.
func GrowthSchedule(baseline float64, ivs []intervention.Intervention, period int) (Series, error) {
	if period < 1 {
		return nil, fmt.Errorf("period %d, %w", period, ErrInvalidPeriod)
	}
	if baseline <= 0 || math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return nil, fmt.Errorf("baseline %v, %w", baseline, ErrInvalidBaseline)
	}

	horizon := intervention.Horizon(ivs)
	rates := make(Series, horizon)
	for i := range horizon {
		day := i + 1
		r := baseline
		for _, iv := range ivs {
			if iv.Active(day) {
				r *= iv.Factor()
			}
		}
		rates[i] = rate.ToDaily(r, period)
	}
	return rates, nil
}

// DailyCases compounds the growth schedule starting from Seed on day 0. The result has one
// more element than the schedule, cases[k] = cases[k-1] * rates[k-1].
func DailyCases(rates Series) Series {
	cases := make(Series, len(rates)+1)
	cases[0] = Seed
	for k := 1; k < len(cases); k++ {
		cases[k] = cases[k-1] * rates[k-1]
	}
	return cases
}

// CumulativeCases is the running total of the daily cases
func CumulativeCases(daily Series) Series {
	return daily.CumSum()
}

// Days returns the day numbers 0..n-1, used as the x axis of renderers
func Days(n int) []int {
	days := make([]int, n)
	for i := range n {
		days[i] = i
	}
	return days
}

// Dates maps days 0..n-1 onto calendar dates starting at origin
func Dates(n int, origin time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, origin.AddDate(0, 0, i))
	}
	return t
}
