package npiregress

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/npi-lab/go-npiregress/indicator"
	"github.com/npi-lab/go-npiregress/intervention"
	"github.com/npi-lab/go-npiregress/rate"
	"github.com/npi-lab/go-npiregress/series"
)

const labelIntercept = indicator.LabelIntercept

var (
	ErrZeroFactorSkip  = errors.New("a zero-factor intervention removes the daily signal needed to separate effects")
	ErrFitUnavailable  = errors.New("regression was not fitted")
	ErrUnknownSeries   = errors.New("unknown series type")
	ErrUnknownFitLabel = errors.New("unknown coefficient label")
)

// SeriesType selects which case series a regression runs against
type SeriesType string

const (
	SeriesDaily      SeriesType = "daily"
	SeriesCumulative SeriesType = "cumulative"
)

// FitStatus is the outcome of one regression run
type FitStatus string

const (
	FitStatusFitted            FitStatus = "fitted"
	FitStatusSkippedZeroFactor FitStatus = "skipped_zero_factor"
	FitStatusSingularDesign    FitStatus = "singular_design"
	FitStatusFailed            FitStatus = "failed"
)

// Fit holds the regression of the log growth of one case series on the intervention
// indicators. Coefficients are only populated when Status is FitStatusFitted, otherwise Err
// and Reason describe why.
type Fit struct {
	Series SeriesType `json:"series"`
	Status FitStatus  `json:"status"`
	Reason string     `json:"reason,omitempty"`
	Err    error      `json:"-"`

	Intercept    rate.Rate   `json:"intercept"`
	Coefficients []rate.Rate `json:"coefficients"`
	R2           float64     `json:"r_squared"`

	// Fitted is the predicted log growth per day
	Fitted series.Series `json:"fitted,omitempty"`
}

// Ok reports whether the regression produced coefficients
func (f *Fit) Ok() bool {
	return f != nil && f.Status == FitStatusFitted
}

// Coefficient returns the reported rate of an intervention, or of the intercept when label is
// "intercept"
func (f *Fit) Coefficient(label string) (rate.Rate, error) {
	if !f.Ok() {
		return rate.Rate{}, ErrFitUnavailable
	}
	if label == labelIntercept {
		return f.Intercept, nil
	}
	for _, c := range f.Coefficients {
		if c.Label == label {
			return c, nil
		}
	}
	return rate.Rate{}, fmt.Errorf("%s, %w", label, ErrUnknownFitLabel)
}

// ModelEq returns a string representation of the fit represented as
// dlog(cases) ~ b + m1*npi1 + m2*npi2 ...
func (f *Fit) ModelEq() (string, error) {
	if !f.Ok() {
		return "", ErrFitUnavailable
	}
	eq := fmt.Sprintf("dlog(%s) ~ %.5f", f.Series, f.Intercept.Coef)
	for _, c := range f.Coefficients {
		eq += fmt.Sprintf("%+.5f*%s", c.Coef, c.Label)
	}
	return eq, nil
}

// Results collects every sequence derived for a scenario along with the regressions run on
// them. Fits holds the daily regression first followed by the cumulative one.
type Results struct {
	Name          string                      `json:"name"`
	BaselineRate  float64                     `json:"baseline_rate"`
	Period        int                         `json:"period"`
	Interventions []intervention.Intervention `json:"interventions"`
	Horizon       int                         `json:"horizon"`
	StartDate     time.Time                   `json:"start_date"`

	GrowthRates        series.Series         `json:"growth_rates"`
	DailyCases         series.Series         `json:"daily_cases"`
	CumulativeCases    series.Series         `json:"cumulative_cases"`
	DeltaLogDaily      series.Series         `json:"delta_log_daily"`
	DeltaLogCumulative series.Series         `json:"delta_log_cumulative"`
	Indicators         []indicator.Indicator `json:"indicators"`

	// VIF is the variance inflation factor of each indicator against the others, in indicator
	// order. Only set when there are at least two interventions.
	VIF series.Series `json:"vif,omitempty"`

	Fits []Fit `json:"fits"`
}

// Fit returns the regression run against the given series
func (r *Results) Fit(s SeriesType) (*Fit, error) {
	for i := range r.Fits {
		if r.Fits[i].Series == s {
			return &r.Fits[i], nil
		}
	}
	return nil, fmt.Errorf("%s, %w", s, ErrUnknownSeries)
}

// Divergence returns, per intervention, the cumulative coefficient minus the daily
// coefficient. Both regressions must have been fitted.
func (r *Results) Divergence() (map[string]float64, error) {
	daily, err := r.Fit(SeriesDaily)
	if err != nil {
		return nil, err
	}
	cumulative, err := r.Fit(SeriesCumulative)
	if err != nil {
		return nil, err
	}
	if !daily.Ok() {
		return nil, fmt.Errorf("%s: %s, %w", SeriesDaily, daily.Status, ErrFitUnavailable)
	}
	if !cumulative.Ok() {
		return nil, fmt.Errorf("%s: %s, %w", SeriesCumulative, cumulative.Status, ErrFitUnavailable)
	}

	div := make(map[string]float64, len(daily.Coefficients))
	for _, d := range daily.Coefficients {
		c, err := cumulative.Coefficient(d.Label)
		if err != nil {
			return nil, err
		}
		div[d.Label] = c.Coef - d.Coef
	}
	return div, nil
}

// WriteJSON serializes the results. Non-finite sequence values are written as null.
func (r *Results) WriteJSON(w io.Writer) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(bytes)
	return err
}

// TablePrint writes a human readable report of the scenario and each regression showing the
// raw log-rate coefficients next to the period multipliers
func (r *Results) TablePrint(w io.Writer, prefix, indent string) error {
	name := r.Name
	if name == "" {
		name = "unnamed"
	}
	if _, err := fmt.Fprintf(w, "%s%sScenario: %s\n", prefix, indentExpand(indent, 0), name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sBaseline: %.3f per %d days    Horizon: %d\n",
		prefix, indentExpand(indent, 1), r.BaselineRate, r.Period, r.Horizon); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sInterventions:\n", prefix, indentExpand(indent, 1)); err != nil {
		return err
	}
	withVIF := len(r.VIF) > 0 && len(r.VIF) == len(r.Interventions)
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := "%s%sName\tStart\tEnd\tFactor\t"
	if withVIF {
		header += "VIF\t"
	}
	if _, err := fmt.Fprintf(tbl, header+"\n", prefix, indentExpand(indent, 2)); err != nil {
		return err
	}
	for i, iv := range r.Interventions {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%d\t%d\t%.3f\t",
			prefix, indentExpand(indent, 2),
			iv.Name(), iv.Start(), iv.End(), iv.Factor()); err != nil {
			return err
		}
		if withVIF {
			if _, err := fmt.Fprintf(tbl, "%.3f\t", r.VIF[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tbl); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	for i := range r.Fits {
		if err := r.Fits[i].tablePrint(w, prefix, indent, r.Period, 1); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fit) tablePrint(w io.Writer, prefix, indent string, period, indentGrowth int) error {
	if !f.Ok() {
		_, err := fmt.Fprintf(w, "%s%sRegression on %s cases: %s (%s)\n",
			prefix, indentExpand(indent, indentGrowth), f.Series, f.Status, f.Reason)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sRegression on %s cases: %s    R2: %.3f\n",
		prefix, indentExpand(indent, indentGrowth), f.Series, f.Status, f.R2); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sPredictor\tLog Rate\t%d-Day Multiplier\t\n",
		prefix, indentExpand(indent, indentGrowth+1), period); err != nil {
		return err
	}
	rows := append([]rate.Rate{f.Intercept}, f.Coefficients...)
	for _, c := range rows {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.5f\t%.4f\t\n",
			prefix, indentExpand(indent, indentGrowth+1),
			c.Label, c.Coef, c.Multiplier); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func indentExpand(indent string, growth int) string {
	return strings.Repeat(indent, growth)
}
