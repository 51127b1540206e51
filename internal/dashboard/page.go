// Package dashboard renders the interactive HTML page and the small JS
// controller that turns browser events into API calls.
package dashboard

import (
	"fmt"
	"html/template"
	"io"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/controller"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

// Heading is the dashboard h1 text.
const Heading = "European CO2 Intensity 2015 - 2025"

// CountryOption is one dropdown entry.
type CountryOption struct {
	Name     string
	Selected bool
}

// PageData feeds the dashboard template.
type PageData struct {
	Heading      string
	EChartsCDN   template.HTML
	Countries    []CountryOption
	ButtonLabel  string
	Running      bool
	IntervalMS   int
	HeatmapLabel string
	LineChart    template.HTML
	Heatmap      template.HTML
	NewsEnabled  bool
	Version      string
}

// Builder renders the dashboard page.
type Builder struct {
	tmpl         *template.Template
	heatmapLabel string
}

// NewBuilder parses the page template once. The bucket unit fixes the heatmap
// card heading.
func NewBuilder(bucket models.BucketUnit) (*Builder, error) {
	tmpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	label := "Country-Month"
	if bucket == models.BucketYear {
		label = "Country-Year"
	}
	return &Builder{tmpl: tmpl, heatmapLabel: label}, nil
}

// Render writes the dashboard page for a session view.
func (b *Builder) Render(w io.Writer, view controller.View, allCountries []string, newsEnabled bool, version string) error {
	selected := make(map[string]bool, len(view.Selection))
	for _, country := range view.Selection {
		selected[country] = true
	}
	options := make([]CountryOption, 0, len(allCountries))
	for _, country := range allCountries {
		options = append(options, CountryOption{Name: country, Selected: selected[country]})
	}

	data := PageData{
		Heading:      Heading,
		EChartsCDN:   template.HTML(charts.EChartsCDN),
		Countries:    options,
		ButtonLabel:  view.ButtonLabel,
		Running:      view.Running,
		IntervalMS:   view.IntervalMS,
		HeatmapLabel: b.heatmapLabel,
		LineChart:    snippetHTML(view.Line),
		Heatmap:      snippetHTML(view.Heatmap),
		NewsEnabled:  newsEnabled,
		Version:      version,
	}
	if err := b.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

// snippetHTML combines a snippet's div and init script for direct embedding.
func snippetHTML(snippet charts.ChartSnippet) template.HTML {
	return template.HTML(snippet.Div + "\n" + snippet.Script)
}
