package charts

import (
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
)

// ylGnBu is the sequential light-to-dark palette of the heatmap color scale
// (colorbrewer YlGnBu, 9 classes).
var ylGnBu = []string{
	"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4",
	"#1d91c0", "#225ea8", "#253494", "#081d58",
}

// HeatmapSnippet builds the country x time-bucket pivot chart. Rows are
// countries, columns the bucket labels, the color domain spans the observed
// cell range. Zero-filled cells render like true zero means.
func (r *Renderer) HeatmapSnippet(m aggregate.HeatmapMatrix) (ChartSnippet, error) {
	if m.IsEmpty() {
		return r.PlaceholderSnippet(HeatmapID, MsgNoData)
	}

	cells := make([]interface{}, 0, len(m.Countries)*len(m.Buckets))
	for i := range m.Countries {
		for j := range m.Buckets {
			cells = append(cells, []interface{}{j, i, m.Cells[i][j]})
		}
	}

	min, max := m.ValueRange()
	if max <= min {
		// keep the color scale non-degenerate for single-valued matrices
		max = min + 1
	}

	option := map[string]interface{}{
		"title":   map[string]interface{}{"text": r.HeatmapTitle(), "left": "center"},
		"tooltip": map[string]interface{}{"position": "top"},
		"grid":    map[string]interface{}{"left": "12%", "right": "12%", "top": "14%", "bottom": "14%", "containLabel": true},
		"xAxis":   map[string]interface{}{"type": "category", "data": m.Buckets},
		"yAxis":   map[string]interface{}{"type": "category", "data": m.Countries},
		"visualMap": map[string]interface{}{
			"min":        min,
			"max":        max,
			"calculable": true,
			"orient":     "vertical",
			"right":      0,
			"top":        "center",
			"inRange":    map[string]interface{}{"color": ylGnBu},
		},
		"series": []interface{}{map[string]interface{}{
			"type":  "heatmap",
			"data":  cells,
			"label": map[string]interface{}{"show": false},
		}},
	}
	return r.snippet(HeatmapID, r.HeatmapTitle(), option)
}
