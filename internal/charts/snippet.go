package charts

import "strings"

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div contains a single root <div id="..." style="..."></div>.
// Script contains the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// EChartsCDN loads the ECharts runtime. Emitted once per page, never per snippet.
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// ExtractScriptContent extracts the JavaScript content from a script tag so
// the dashboard can re-execute it after swapping a chart's div in place.
func ExtractScriptContent(script string) string {
	content := strings.TrimSpace(script)
	content = strings.TrimPrefix(content, "<script>")
	content = strings.TrimSuffix(content, "</script>")
	return strings.TrimSpace(content)
}
