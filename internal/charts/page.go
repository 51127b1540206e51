package charts

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
)

// RenderPrintablePage writes a standalone HTML document embedding both charts
// as self-contained go-echarts renders, suitable for printing or archiving.
// Missing inputs degrade to a short message instead of failing the page.
func (r *Renderer) RenderPrintablePage(w io.Writer, series []aggregate.LineSeries, m aggregate.HeatmapMatrix, generated time.Time) error {
	lineHTML := "<p>" + MsgSelectCountry + "</p>"
	if len(series) > 0 {
		html, err := r.renderTypedLine(series)
		if err != nil {
			logger.Error("Failed to render printable line chart", err)
		} else {
			lineHTML = html
		}
	}

	heatmapHTML := "<p>" + MsgNoData + "</p>"
	if !m.IsEmpty() {
		html, err := r.renderTypedHeatmap(m)
		if err != nil {
			logger.Error("Failed to render printable heatmap", err)
		} else {
			heatmapHTML = html
		}
	}

	doc := fmt.Sprintf(printablePage,
		generated.Format("2006-01-02 15:04:05 UTC"),
		lineHTML,
		heatmapHTML,
	)
	if _, err := w.Write([]byte(doc)); err != nil {
		return fmt.Errorf("failed to write printable page: %w", err)
	}
	return nil
}

func (r *Renderer) renderTypedLine(series []aggregate.LineSeries) (string, error) {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "1100px",
			Height: "460px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: r.LineTitle(),
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: r.cfg.MetricLabel,
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	labels, index := monthAxis(series)
	line.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.LineData, len(labels))
		for i := range data {
			data[i] = opts.LineData{Value: nil}
		}
		for _, p := range s.Points {
			data[index[p.Date.Format("2006-01")]] = opts.LineData{Value: p.Value}
		}
		line.AddSeries(s.Country, data)
	}
	line.SetSeriesOptions(echarts.WithLineChartOpts(opts.LineChart{Smooth: true}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) renderTypedHeatmap(m aggregate.HeatmapMatrix) (string, error) {
	min, max := m.ValueRange()
	if max <= min {
		max = min + 1
	}

	heatmap := echarts.NewHeatMap()
	heatmap.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "1100px",
			Height: "460px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: r.HeatmapTitle(),
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: m.Buckets,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: m.Countries,
		}),
		echarts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(min),
			Max:        float32(max),
			InRange: &opts.VisualMapInRange{
				Color: ylGnBu,
			},
		}),
	)

	var data []opts.HeatMapData
	for i := range m.Countries {
		for j := range m.Buckets {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, m.Cells[i][j]}})
		}
	}
	heatmap.AddSeries("Mean value", data)

	var buf bytes.Buffer
	if err := heatmap.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// monthAxis returns the sorted distinct month labels across all series and
// the label -> column index mapping used to align points on a shared axis.
func monthAxis(series []aggregate.LineSeries) ([]string, map[string]int) {
	seen := make(map[string]time.Time)
	for _, s := range series {
		for _, p := range s.Points {
			key := p.Date.Format("2006-01")
			if _, ok := seen[key]; !ok {
				seen[key] = p.Date
			}
		}
	}

	labels := make([]string, 0, len(seen))
	for key := range seen {
		labels = append(labels, key)
	}
	sort.Slice(labels, func(i, j int) bool { return seen[labels[i]].Before(seen[labels[j]]) })

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return labels, index
}

const printablePage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>European CO2 Intensity Charts</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
        }
        .header h1 {
            margin: 0;
            font-size: 2em;
        }
        .header .timestamp {
            color: #666;
            margin-top: 8px;
        }
        .chart-section {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            margin-bottom: 30px;
        }
        .footer {
            text-align: center;
            color: #666;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>European CO2 Intensity 2015 - 2025</h1>
        <div class="timestamp">Generated: %s</div>
    </div>

    <div class="chart-section">
        %s
    </div>

    <div class="chart-section">
        %s
    </div>

    <div class="footer">
        <p>Data: monthly electricity statistics | gCO2e/kWh</p>
    </div>
</body>
</html>`
