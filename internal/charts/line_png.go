package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
)

// pngPalette rotates across country lines. Red and green stay reserved for
// the extremum dots.
var pngPalette = []drawing.Color{
	{R: 51, G: 102, B: 204, A: 255},  // blue
	{R: 255, G: 153, B: 0, A: 255},   // orange
	{R: 102, G: 51, B: 153, A: 255},  // purple
	{R: 0, G: 153, B: 153, A: 255},   // teal
	{R: 153, G: 102, B: 51, A: 255},  // brown
	{R: 204, G: 102, B: 153, A: 255}, // pink
	{R: 119, G: 119, B: 119, A: 255}, // gray
	{R: 153, G: 153, B: 0, A: 255},   // olive
}

var (
	pngMinColor = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	pngMaxColor = drawing.Color{R: 0, G: 153, B: 0, A: 255}
)

// RenderLinePNG writes a static PNG of the line chart. Unlike the dashboard,
// an export with nothing to draw is an error rather than a placeholder.
func (r *Renderer) RenderLinePNG(w io.Writer, series []aggregate.LineSeries) error {
	var chartSeries []chart.Series
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xValues := make([]time.Time, len(s.Points))
		yValues := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xValues[j] = p.Date
			yValues[j] = p.Value
		}

		color := pngPalette[i%len(pngPalette)]
		chartSeries = append(chartSeries, chart.TimeSeries{
			Name: s.Country,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
			},
			XValues: xValues,
			YValues: yValues,
		})

		if !r.cfg.ShowExtrema || s.MinIndex < 0 || s.MaxIndex < 0 {
			continue
		}
		min := s.Points[s.MinIndex]
		max := s.Points[s.MaxIndex]
		chartSeries = append(chartSeries,
			chart.TimeSeries{
				Name: s.Country + " min",
				Style: chart.Style{
					StrokeColor: pngMinColor,
					StrokeWidth: 1,
					DotColor:    pngMinColor,
					DotWidth:    6,
				},
				XValues: []time.Time{min.Date},
				YValues: []float64{min.Value},
			},
			chart.TimeSeries{
				Name: s.Country + " max",
				Style: chart.Style{
					StrokeColor: pngMaxColor,
					StrokeWidth: 1,
					DotColor:    pngMaxColor,
					DotWidth:    6,
				},
				XValues: []time.Time{max.Date},
				YValues: []float64{max.Value},
			},
		)
	}
	if len(chartSeries) == 0 {
		return fmt.Errorf("no data to draw")
	}

	graph := chart.Chart{
		Title: r.LineTitle(),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   70,
				Right:  20,
				Bottom: 50,
			},
		},
		Width:  900,
		Height: 420,
		XAxis: chart.XAxis{
			Name: "Date",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: func(v interface{}) string {
				switch t := v.(type) {
				case time.Time:
					return t.Format("2006-01")
				case float64:
					return time.Unix(0, int64(t)).Format("2006-01")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: r.cfg.MetricLabel,
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: chartSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render line chart PNG: %w", err)
	}
	return nil
}
