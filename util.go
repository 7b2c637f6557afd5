package trend

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-trend/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoPlotData = errors.New("no observations to plot")

// LineSeries generates an echart line chart of the observed series
func LineSeries(title string, ds *timedataset.TimeDataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([]opts.LineData, 0, ds.Len())
	for _, y := range ds.Y {
		lineData = append(lineData, opts.LineData{Value: y})
	}

	line.SetXAxis(formatAxis(ds.T)).
		AddSeries("Observed", lineData)
	return line
}

// LinePredictions generates an echart line chart of the predicted values along with the
// upper and lower bounds of each prediction
func LinePredictions(predictions []Prediction) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Predictions",
			},
		),
	)

	xAxis := make([]string, 0, len(predictions))
	lineDataPredicted := make([]opts.LineData, 0, len(predictions))
	lineDataUpper := make([]opts.LineData, 0, len(predictions))
	lineDataLower := make([]opts.LineData, 0, len(predictions))

	for _, p := range predictions {
		xAxis = append(xAxis, p.Timestamp)
		lineDataPredicted = append(lineDataPredicted, opts.LineData{Value: p.PredictedValue})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: p.Range.Max})
		lineDataLower = append(lineDataLower, opts.LineData{Value: p.Range.Min})
	}

	line.SetXAxis(xAxis).
		AddSeries("Predicted", lineDataPredicted).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// ScatterAnomalies generates an echart scatter chart of the actual and expected value of
// every anomaly
func ScatterAnomalies(anomalies []Anomaly) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Anomalies",
			},
		),
	)

	xAxis := make([]string, 0, len(anomalies))
	actual := make([]opts.ScatterData, 0, len(anomalies))
	expected := make([]opts.ScatterData, 0, len(anomalies))
	for _, a := range anomalies {
		xAxis = append(xAxis, a.Timestamp)
		actual = append(actual, opts.ScatterData{Name: string(a.Severity), Value: a.ActualValue})
		expected = append(expected, opts.ScatterData{Value: a.ExpectedValue})
	}

	scatter.SetXAxis(xAxis).
		AddSeries("Actual", actual).
		AddSeries("Expected", expected)
	return scatter
}

// PlotResult renders an html page with the observed series and whichever predictions or
// anomalies the result carries
func PlotResult(w io.Writer, ds *timedataset.TimeDataset, res TrendResult) error {
	if ds.Len() == 0 {
		return ErrNoPlotData
	}

	title := fmt.Sprintf("Trend: %s (confidence %.3f)", res.TrendType, res.Confidence)

	page := components.NewPage()
	page.AddCharts(LineSeries(title, ds))
	if len(res.Predictions) > 0 {
		page.AddCharts(LinePredictions(res.Predictions))
	}
	if len(res.Anomalies) > 0 {
		page.AddCharts(ScatterAnomalies(res.Anomalies))
	}
	return page.Render(w)
}

func formatAxis(t []time.Time) []string {
	axis := make([]string, len(t))
	for i, tPnt := range t {
		axis[i] = tPnt.UTC().Format(TimestampLayout)
	}
	return axis
}
