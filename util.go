package npiregress

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missingValue is how echarts expects a gap in a line
const missingValue = "-"

// LineSeries generates an echart multi-line chart over an arbitrary x axis. Every series in y
// must have the same length as x. NaN and infinite values are drawn as gaps.
func LineSeries(title string, seriesName []string, x []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Trigger: "axis",
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(x))
		for j := 0; j < len(x); j++ {
			if j >= len(y[i]) || math.IsNaN(y[i][j]) || math.IsInf(y[i][j], 0) {
				lineData[i] = append(lineData[i], opts.LineData{Value: missingValue})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(x)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}

	return line
}
