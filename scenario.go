// Package npiregress simulates an epidemic under a set of non-pharmaceutical interventions and
// regresses the day-over-day change in log cases on intervention indicators, once for the
// daily new cases and once for the cumulative cases, to compare the effects each recovers.
package npiregress

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/npi-lab/go-npiregress/indicator"
	"github.com/npi-lab/go-npiregress/intervention"
	"github.com/npi-lab/go-npiregress/linearmodel"
	"github.com/npi-lab/go-npiregress/rate"
	"github.com/npi-lab/go-npiregress/series"
	"github.com/npi-lab/go-npiregress/stats"
	"gonum.org/v1/gonum/mat"
)

// Scenario runs the simulation and both regressions for a validated set of options. It holds no
// mutable state so Run may be called repeatedly and concurrently.
type Scenario struct {
	opt *Options
}

// New validates the options and returns a scenario ready to run. Invalid interventions, rates or
// periods are reported here before any computation.
func New(opt *Options) (*Scenario, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid scenario options, %w", err)
	}
	return &Scenario{opt: opt}, nil
}

// Options returns a copy of the validated options
func (s *Scenario) Options() Options {
	out := *s.opt
	out.Interventions = append([]intervention.Intervention(nil), s.opt.Interventions...)
	return out
}

// Run simulates the case series and fits the regressions. The daily regression is skipped when
// any intervention has a zero factor. A singular design only marks the affected regression,
// the other one still runs.
func (s *Scenario) Run() (*Results, error) {
	opt := s.opt
	ivs := opt.Interventions

	rates, err := series.GrowthSchedule(opt.BaselineRate, ivs, opt.Period)
	if err != nil {
		return nil, fmt.Errorf("unable to build growth schedule, %w", err)
	}
	daily := series.DailyCases(rates)
	cumulative := series.CumulativeCases(daily)

	inds, err := indicator.FromInterventions(ivs)
	if err != nil {
		return nil, fmt.Errorf("unable to build indicators, %w", err)
	}
	x, err := inds.Matrix(false)
	if err != nil {
		return nil, fmt.Errorf("unable to build design matrix, %w", err)
	}

	res := &Results{
		Name:               opt.Name,
		BaselineRate:       opt.BaselineRate,
		Period:             opt.Period,
		Interventions:      append([]intervention.Intervention(nil), ivs...),
		Horizon:            inds.Horizon(),
		StartDate:          opt.StartDate,
		GrowthRates:        rates,
		DailyCases:         daily,
		CumulativeCases:    cumulative,
		DeltaLogDaily:      daily.LogDiff(),
		DeltaLogCumulative: cumulative.LogDiff(),
		Indicators:         inds.Indicators(),
		Fits:               make([]Fit, 0, 2),
	}

	if len(ivs) > 1 {
		cols := make([][]float64, 0, len(res.Indicators))
		for _, ind := range res.Indicators {
			cols = append(cols, ind.Data)
		}
		vif, err := stats.VarianceInflationFactor(cols)
		if err != nil {
			slog.Warn("unable to compute variance inflation factors", "scenario", opt.Name, "error", err.Error())
		} else {
			res.VIF = vif
		}
	}

	labels := inds.Labels()
	if intervention.HasZeroFactor(ivs) {
		slog.Warn("skipping daily regression", "scenario", opt.Name, "reason", ErrZeroFactorSkip.Error())
		res.Fits = append(res.Fits, Fit{
			Series: SeriesDaily,
			Status: FitStatusSkippedZeroFactor,
			Reason: ErrZeroFactorSkip.Error(),
			Err:    ErrZeroFactorSkip,
		})
	} else {
		res.Fits = append(res.Fits, s.fit(SeriesDaily, res.DeltaLogDaily, x, labels))
	}
	res.Fits = append(res.Fits, s.fit(SeriesCumulative, res.DeltaLogCumulative, x, labels))

	return res, nil
}

// fit regresses the log growth y on the indicator columns of x plus an intercept
func (s *Scenario) fit(st SeriesType, y series.Series, x mat.Matrix, labels []string) Fit {
	f := Fit{Series: st}

	model, err := linearmodel.NewOLSRegression(s.opt.olsOptions())
	if err != nil {
		return s.failed(f, err)
	}

	target := mat.NewDense(len(y), 1, y.Copy())
	if err := model.Fit(x, target); err != nil {
		return s.failed(f, err)
	}

	fitted, err := model.Predict(x)
	if err != nil {
		return s.failed(f, err)
	}
	r2, err := model.Score(x, target)
	if err != nil {
		return s.failed(f, err)
	}

	coef := model.Coef()
	f.Status = FitStatusFitted
	f.Intercept = rate.New(labelIntercept, model.Intercept(), s.opt.Period)
	f.Coefficients = make([]rate.Rate, len(coef))
	for i, c := range coef {
		f.Coefficients[i] = rate.New(labels[i], c, s.opt.Period)
	}
	f.R2 = r2
	f.Fitted = fitted

	slog.Debug("fit regression", "scenario", s.opt.Name, "series", st, "r2", r2)
	return f
}

func (s *Scenario) failed(f Fit, err error) Fit {
	f.Status = FitStatusFailed
	if errors.Is(err, linearmodel.ErrSingularDesign) {
		f.Status = FitStatusSingularDesign
	}
	f.Err = err
	f.Reason = err.Error()
	slog.Warn("regression unavailable", "scenario", s.opt.Name, "series", f.Series, "status", f.Status, "error", err.Error())
	return f
}

// Run is a shorthand for New followed by Scenario.Run
func Run(opt *Options) (*Results, error) {
	s, err := New(opt)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
