package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/gridmix/core/report"
)

// WriteHTML renders a standalone page comparing the capacity mix with the
// least-cost dispatch, both as percentages per fuel.
func WriteHTML(w io.Writer, m report.Metrics, ts TSOptions) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Generation mix",
			Subtitle: fmt.Sprintf("%s, %.1f MW, %.2f $/MWh, generated %s",
				m.Status, m.EffectiveDemandMW, m.AverageCostPerMWh, stamp(ts.GeneratedAt)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Fuel"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Share (%)"}),
	)

	xAxis := make([]string, 0, len(m.Fuels))
	current := make([]opts.BarData, 0, len(m.Fuels))
	optimized := make([]opts.BarData, 0, len(m.Fuels))
	for _, l := range m.Fuels {
		xAxis = append(xAxis, l.Fuel.String())
		current = append(current, opts.BarData{Value: round3(l.CapacitySharePct)})
		optimized = append(optimized, opts.BarData{Value: round3(l.SharePct)})
	}
	bar.SetXAxis(xAxis).
		AddSeries("Available capacity", current).
		AddSeries("Least-cost dispatch", optimized)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
