package charts

import (
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
)

// LineChartSnippet builds the multi-country spline chart. One smooth line per
// series in input order; with extrema markers enabled each series also gets a
// red dot on its minimum and a green dot on its maximum. Only the country
// lines are listed in the legend, the markers stay out of it.
func (r *Renderer) LineChartSnippet(series []aggregate.LineSeries) (ChartSnippet, error) {
	if len(series) == 0 {
		return r.PlaceholderSnippet(LineChartID, MsgSelectCountry)
	}

	legend := make([]string, 0, len(series))
	seriesList := make([]interface{}, 0, len(series)*3)
	for _, s := range series {
		legend = append(legend, s.Country)

		points := make([]interface{}, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, []interface{}{p.Date.Format("2006-01-02"), p.Value})
		}
		seriesList = append(seriesList, map[string]interface{}{
			"name":       s.Country,
			"type":       "line",
			"smooth":     true,
			"showSymbol": false,
			"data":       points,
		})

		if !r.cfg.ShowExtrema || s.MinIndex < 0 || s.MaxIndex < 0 {
			continue
		}
		min := s.Points[s.MinIndex]
		max := s.Points[s.MaxIndex]
		seriesList = append(seriesList,
			map[string]interface{}{
				"name":       s.Country + " min",
				"type":       "scatter",
				"symbolSize": 12,
				"itemStyle":  map[string]interface{}{"color": "red"},
				"data":       []interface{}{[]interface{}{min.Date.Format("2006-01-02"), min.Value}},
			},
			map[string]interface{}{
				"name":       s.Country + " max",
				"type":       "scatter",
				"symbolSize": 12,
				"itemStyle":  map[string]interface{}{"color": "green"},
				"data":       []interface{}{[]interface{}{max.Date.Format("2006-01-02"), max.Value}},
			},
		)
	}

	option := map[string]interface{}{
		"title":   map[string]interface{}{"text": r.LineTitle(), "left": "center"},
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"legend":  map[string]interface{}{"data": legend, "bottom": 0},
		"grid":    map[string]interface{}{"left": "8%", "right": "4%", "top": "14%", "bottom": "14%", "containLabel": true},
		"xAxis":   map[string]interface{}{"type": "time"},
		"yAxis":   map[string]interface{}{"type": "value", "name": r.cfg.MetricLabel},
		"series":  seriesList,
	}
	return r.snippet(LineChartID, r.LineTitle(), option)
}
