package npiregress

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/npi-lab/go-npiregress/series"
)

const dateLayout = "2006-01-02"

// axis labels days 0..n-1, as calendar dates when the scenario has a start date
func (r *Results) axis(n int) []string {
	x := make([]string, n)
	if r.StartDate.IsZero() {
		for i, d := range series.Days(n) {
			x[i] = strconv.Itoa(d)
		}
		return x
	}
	for i, t := range series.Dates(n, r.StartDate) {
		x[i] = t.Format(dateLayout)
	}
	return x
}

// fitted returns the predicted log growth for the series or nil when the fit is unavailable
func (r *Results) fitted(s SeriesType) []float64 {
	f, err := r.Fit(s)
	if err != nil || !f.Ok() {
		return nil
	}
	return f.Fitted
}

// Plot uses the Apache Echarts library to render an html page with the daily and cumulative
// cases and their log growth against the fitted regressions
func (r *Results) Plot(w io.Writer) error {
	days := r.axis(len(r.DailyCases))
	// log growth of day k+1 is labeled with day k+1
	growthDays := days[1:]

	page := components.NewPage()
	page.AddCharts(
		LineSeries(
			"Daily Cases",
			[]string{"Daily"},
			days,
			[][]float64{r.DailyCases},
		),
		LineSeries(
			"Cumulative Cases",
			[]string{"Cumulative"},
			days,
			[][]float64{r.CumulativeCases},
		),
		LineSeries(
			"Delta Log Daily Cases",
			[]string{"Observed", "Fitted"},
			growthDays,
			[][]float64{r.DeltaLogDaily, r.fitted(SeriesDaily)},
		),
		LineSeries(
			"Delta Log Cumulative Cases",
			[]string{"Observed", "Fitted"},
			growthDays,
			[][]float64{r.DeltaLogCumulative, r.fitted(SeriesCumulative)},
		),
	)
	return page.Render(w)
}
