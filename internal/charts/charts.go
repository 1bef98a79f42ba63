// Package charts builds the dashboard's go-echarts chart specifications from
// aggregation results and mass samples. Charts are rendered server-side;
// empty or degenerate data renders a well-defined placeholder instead of
// failing.
package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/insights"
)

const (
	chartWidth  = "900px"
	chartHeight = "500px"

	barColor       = "rgb(55, 83, 109)"
	histogramColor = "rgba(55, 83, 109, 0.7)"
	kdeColor       = "rgb(219, 64, 82)"
)

// Bar renders the aggregation result as a horizontal bar chart, one bar per
// group in the result's order (already sorted and truncated).
func Bar(res insights.AggregationResult) *charts.Bar {
	if len(res.Groups) == 0 {
		return EmptyState("No data available")
	}

	// Reverse so the highest count sits at the top of the reversed axes.
	labels := make([]string, len(res.Groups))
	values := make([]opts.BarData, len(res.Groups))
	for i, g := range res.Groups {
		j := len(res.Groups) - 1 - i
		labels[j] = g.Label
		values[j] = opts.BarData{Value: g.Count, Name: g.Label}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Top %d %s by Aircraft Count", res.TopN, res.Key.Title()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Aircraft", values, charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}))
	bar.XYReversal()
	return bar
}

// Density renders the mass distribution: a histogram normalized to
// probability density overlaid with the kernel density estimate on a second
// Y axis. With fewer than two numeric values the curve is omitted; with none,
// an empty-state chart is returned.
func Density(sample []float64) *charts.Bar {
	if len(sample) == 0 {
		return EmptyState("No mass data available")
	}

	bins := insights.Histogram(sample, config.DefaultHistogramBins)
	labels := make([]string, len(bins))
	centers := make([]float64, len(bins))
	values := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.0f", b.Center)
		centers[i] = b.Center
		values[i] = opts.BarData{Value: b.Density}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Distribution of " + config.ColMass}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: config.ColMass}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability Density"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Distribution", values, charts.WithItemStyleOpts(opts.ItemStyle{Color: histogramColor}))

	curve, ok := insights.KDEAt(sample, centers)
	if !ok {
		return bar
	}

	bar.ExtendYAxis(opts.YAxis{Name: "Density (KDE)"})

	points := make([]opts.LineData, len(curve))
	for i, p := range curve {
		points[i] = opts.LineData{Value: p.Y}
	}
	line := charts.NewLine()
	line.SetXAxis(labels).
		AddSeries("Density", points,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), YAxisIndex: 1}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: kdeColor, Width: 2}),
		)

	bar.Overlap(line)
	return bar
}

// EmptyState returns a placeholder chart carrying only a message, used for
// empty selections and per-output degradation.
func EmptyState(msg string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: msg}),
	)
	return bar
}
