package charts

import (
	"encoding/json"
	"fmt"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

// DOM ids the dashboard mounts the two charts into. The page JS targets
// these when it swaps fragments after an interaction.
const (
	LineChartID = "chart-co2-line"
	HeatmapID   = "chart-co2-heatmap"
)

// Placeholder messages, shown as a title-only chart with no data trace.
const (
	MsgSelectCountry = "Please select at least one country"
	MsgNoData        = "No data for selected countries."
)

// Config controls chart rendering.
type Config struct {
	MetricLabel string            // y-axis / title label of the fixed metric
	TimeBucket  models.BucketUnit // heatmap column grouping
	ShowExtrema bool              // draw per-series min/max markers
	Height      string            // CSS height of embedded chart divs
}

// Renderer builds chart fragments and static exports from aggregation results.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer. An empty Height falls back to 500px.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Height == "" {
		cfg.Height = "500px"
	}
	return &Renderer{cfg: cfg}
}

// LineTitle is the centered title of the line chart.
func (r *Renderer) LineTitle() string {
	return fmt.Sprintf("%s by Country Over Time", r.cfg.MetricLabel)
}

// HeatmapTitle names the pivot after its bucket unit.
func (r *Renderer) HeatmapTitle() string {
	if r.cfg.TimeBucket == models.BucketYear {
		return "Country-Year Heatmap"
	}
	return "Country-Month Heatmap"
}

// snippet marshals an ECharts option map and wraps it in the div/script pair.
func (r *Renderer) snippet(id, title string, option map[string]interface{}) (ChartSnippet, error) {
	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to marshal chart option: %w", err)
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%s;\"></div>", id, r.cfg.Height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, string(optJSON))

	completeHTML := fmt.Sprintf(`<div class="chart-container">
	%s
</div>
%s`, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

// PlaceholderSnippet renders a title-only chart used when there is nothing to
// draw: an empty selection, or a selection the dataset has no rows for.
func (r *Renderer) PlaceholderSnippet(id, message string) (ChartSnippet, error) {
	option := map[string]interface{}{
		"title":  map[string]interface{}{"text": message, "left": "center", "top": "middle"},
		"xAxis":  map[string]interface{}{"show": false},
		"yAxis":  map[string]interface{}{"show": false},
		"series": []interface{}{},
	}
	return r.snippet(id, message, option)
}
