// Package controller applies dashboard events (selection changes, animation
// toggles, timer ticks) to a session and renders the charts they affect.
package controller

import (
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dataset"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/session"
)

// SnippetPayload is the transferable form of a chart fragment. Script holds
// bare JavaScript, stripped of its <script> wrapper, so the page can swap the
// div and re-execute the initializer.
type SnippetPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Div    string `json:"div"`
	Script string `json:"script"`
}

// Update is the JSON reply of every dashboard event endpoint. Line and
// Heatmap are nil when the event does not change the charts (a toggle).
type Update struct {
	Selection   []string        `json:"selection"`
	Running     bool            `json:"running"`
	ButtonLabel string          `json:"button_label"`
	IntervalMS  int             `json:"interval_ms"`
	Line        *SnippetPayload `json:"line,omitempty"`
	Heatmap     *SnippetPayload `json:"heatmap,omitempty"`
}

// View is everything the server-rendered dashboard page needs for a session.
type View struct {
	Selection   []string
	Running     bool
	ButtonLabel string
	IntervalMS  int
	Line        charts.ChartSnippet
	Heatmap     charts.ChartSnippet
}

// Controller owns the three event handlers. Each locks the session for its
// whole run, so concurrent events on one session queue up and apply in
// arrival order. Callers must not hold the session lock themselves.
type Controller struct {
	store    *dataset.Store
	renderer *charts.Renderer
	metric   models.Metric
	bucket   models.BucketUnit
	interval time.Duration
}

// New creates a controller. interval is the client-side animation period.
func New(store *dataset.Store, renderer *charts.Renderer, metric models.Metric, bucket models.BucketUnit, interval time.Duration) *Controller {
	return &Controller{
		store:    store,
		renderer: renderer,
		metric:   metric,
		bucket:   bucket,
		interval: interval,
	}
}

// Sanitize drops countries the dataset does not know and removes duplicates,
// preserving first occurrence. The dropdown is populated from the dataset, so
// anything unknown is a stale or hand-crafted request; it is dropped silently
// rather than surfaced as an error.
func (c *Controller) Sanitize(countries []string) []string {
	known := make(map[string]struct{})
	for _, country := range c.store.AllCountries() {
		known[country] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(countries))
	for _, country := range countries {
		if _, ok := known[country]; !ok {
			continue
		}
		if _, ok := seen[country]; ok {
			continue
		}
		seen[country] = struct{}{}
		out = append(out, country)
	}
	return out
}

// HandleSelection replaces the session's selection and re-renders both charts.
func (c *Controller) HandleSelection(sess *session.Session, countries []string) (Update, error) {
	sanitized := c.Sanitize(countries)

	sess.Lock()
	defer sess.Unlock()
	sess.SetSelection(sanitized)
	sess.Touch()
	return c.chartUpdate(sess)
}

// HandleToggle flips the animation state. The charts stay as they are; only
// the client timer arms or disarms in response.
func (c *Controller) HandleToggle(sess *session.Session) (Update, error) {
	sess.Lock()
	defer sess.Unlock()
	state := sess.Sequencer().Toggle()
	sess.Touch()

	logger.Debug("Animation toggled", map[string]interface{}{
		"session_id": sess.ID,
		"state":      state.String(),
	})
	return c.baseUpdate(sess), nil
}

// HandleTick advances the animation cycle and applies the produced selection.
// A tick that arrives after the animation stopped (a stale client timer)
// echoes the current state without touching the counter or the charts.
func (c *Controller) HandleTick(sess *session.Session) (Update, error) {
	sess.Lock()
	defer sess.Unlock()

	seq := sess.Sequencer()
	if !seq.Running() {
		return c.baseUpdate(sess), nil
	}

	selection := seq.Advance(c.store.AllCountries(), sess.Selection())
	sess.SetSelection(selection)
	sess.Touch()
	return c.chartUpdate(sess)
}

// View renders the full snippets for the session's current state, used by the
// server-rendered dashboard page.
func (c *Controller) View(sess *session.Session) (View, error) {
	sess.Lock()
	defer sess.Unlock()

	line, heatmap, err := c.renderSnippets(sess.Selection())
	if err != nil {
		return View{}, err
	}
	return View{
		Selection:   sess.Selection(),
		Running:     sess.Sequencer().Running(),
		ButtonLabel: sess.Sequencer().State().ButtonLabel(),
		IntervalMS:  c.IntervalMS(),
		Line:        line,
		Heatmap:     heatmap,
	}, nil
}

// Aggregates recomputes the line series and heatmap for the session's current
// selection. Used by the export endpoints.
func (c *Controller) Aggregates(sess *session.Session) ([]aggregate.LineSeries, aggregate.HeatmapMatrix) {
	sess.Lock()
	selection := sess.Selection()
	sess.Unlock()
	return c.ComputeFor(selection)
}

// ComputeFor recomputes both aggregations for an arbitrary selection.
func (c *Controller) ComputeFor(selection []string) ([]aggregate.LineSeries, aggregate.HeatmapMatrix) {
	subset := aggregate.FilterByMetric(c.store.Observations(), selection, c.metric)
	return aggregate.ComputeLineSeries(subset), aggregate.ComputeHeatmap(subset, c.bucket)
}

// IntervalMS is the animation period in milliseconds.
func (c *Controller) IntervalMS() int {
	return int(c.interval / time.Millisecond)
}

// Renderer exposes the chart renderer for the export endpoints.
func (c *Controller) Renderer() *charts.Renderer { return c.renderer }

// baseUpdate captures selection and animation state. Session must be locked.
func (c *Controller) baseUpdate(sess *session.Session) Update {
	return Update{
		Selection:   sess.Selection(),
		Running:     sess.Sequencer().Running(),
		ButtonLabel: sess.Sequencer().State().ButtonLabel(),
		IntervalMS:  c.IntervalMS(),
	}
}

// chartUpdate recomputes and re-renders both charts. Session must be locked.
func (c *Controller) chartUpdate(sess *session.Session) (Update, error) {
	line, heatmap, err := c.renderSnippets(sess.Selection())
	if err != nil {
		return Update{}, err
	}

	update := c.baseUpdate(sess)
	update.Line = toPayload(line)
	update.Heatmap = toPayload(heatmap)
	return update, nil
}

// renderSnippets recomputes the aggregations and renders both fragments.
// Empty selections and dataless selections come back as placeholders.
func (c *Controller) renderSnippets(selection []string) (charts.ChartSnippet, charts.ChartSnippet, error) {
	series, matrix := c.ComputeFor(selection)

	line, err := c.renderer.LineChartSnippet(series)
	if err != nil {
		return charts.ChartSnippet{}, charts.ChartSnippet{}, err
	}
	heatmap, err := c.renderer.HeatmapSnippet(matrix)
	if err != nil {
		return charts.ChartSnippet{}, charts.ChartSnippet{}, err
	}
	return line, heatmap, nil
}

func toPayload(snippet charts.ChartSnippet) *SnippetPayload {
	return &SnippetPayload{
		ID:     snippet.ID,
		Title:  snippet.Title,
		Div:    snippet.Div,
		Script: charts.ExtractScriptContent(snippet.Script),
	}
}
