package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

// HandleDashboard serves the server-rendered dashboard page for the visitor's
// session, creating the session (and its cookie) on first contact.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	start := time.Now()
	view, err := s.controller.View(sess)
	if err != nil {
		logger.Error("Failed to build dashboard view", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.metrics.ObserveRecompute("view", time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dashboard.Render(w, view, s.store.AllCountries(), s.news.Enabled(), s.version); err != nil {
		logger.Error("Failed to render dashboard", err)
	}
}

// HandleSelection applies a dropdown change and returns fresh chart payloads.
func (s *Server) HandleSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	var body struct {
		Countries []string `json:"countries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	update, err := s.controller.HandleSelection(sess, body.Countries)
	if err != nil {
		logger.Error("Selection update failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to update selection")
		return
	}
	s.metrics.ObserveRecompute("selection", time.Since(start))
	writeJSON(w, http.StatusOK, update)
}

// HandleToggle flips the session's animation state. No chart recomputation;
// the response tells the page to arm or disarm its timer.
func (s *Server) HandleToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	update, err := s.controller.HandleToggle(sess)
	if err != nil {
		logger.Error("Animation toggle failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to toggle animation")
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// HandleTick advances the animation for the session. A stale tick (animation
// already stopped) echoes state without charts.
func (s *Server) HandleTick(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	start := time.Now()
	update, err := s.controller.HandleTick(sess)
	if err != nil {
		logger.Error("Animation tick failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to apply tick")
		return
	}
	if update.Line != nil {
		s.metrics.ObserveRecompute("tick", time.Since(start))
		s.metrics.AnimationTick()
	}
	writeJSON(w, http.StatusOK, update)
}

// HandleCountries serves the dropdown options.
func (s *Server) HandleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"countries": s.store.AllCountries(),
	})
}

// HandleNews serves the cached publisher feed; 204 when no feed is configured.
func (s *Server) HandleNews(w http.ResponseWriter, r *http.Request) {
	if !s.news.Enabled() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	items, err := s.news.Items(r.Context())
	if err != nil {
		logger.Error("News fetch failed", err)
		writeJSONError(w, http.StatusBadGateway, "failed to fetch news feed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleInsights generates model commentary on the session's current
// aggregates; 503 when no API key is configured.
func (s *Server) HandleInsights(w http.ResponseWriter, r *http.Request) {
	if !s.llm.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	sess := s.ensureSession(w, r)
	series, matrix := s.controller.Aggregates(sess)

	markdown, err := s.llm.GenerateInsights(r.Context(), series, matrix)
	if err != nil {
		logger.Error("Insights generation failed", err)
		writeJSONError(w, http.StatusBadGateway, "failed to generate insights")
		return
	}
	html, err := llmToHTML(markdown)
	if err != nil {
		logger.Error("Insights rendering failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to render insights")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markdown": markdown,
		"html":     html,
	})
}

// HandlePrintablePage serves a standalone two-chart HTML document for the
// session's current selection.
func (s *Server) HandlePrintablePage(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	series, matrix := s.controller.Aggregates(sess)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.controller.Renderer().RenderPrintablePage(w, series, matrix, time.Now().UTC()); err != nil {
		logger.Error("Printable page render failed", err)
	}
}

// HandleLinePNG exports the session's line chart as a static PNG. Unlike the
// dashboard, an export with nothing to draw is a 404, not a placeholder.
func (s *Server) HandleLinePNG(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	series, _ := s.controller.Aggregates(sess)

	var buf bytes.Buffer
	if err := s.controller.Renderer().RenderLinePNG(&buf, series); err != nil {
		http.Error(w, "No data to export", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="linechart.png"`)
	w.Write(buf.Bytes())
}

// HandleXLSX exports both aggregates as an Excel workbook.
func (s *Server) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)
	series, matrix := s.controller.Aggregates(sess)

	workbook, err := buildWorkbook(series, matrix)
	if err != nil {
		logger.Error("Workbook build failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", storage.ContentType("data.xlsx"))
	w.Header().Set("Content-Disposition", `attachment; filename="data.xlsx"`)
	if _, err := workbook.WriteTo(w); err != nil {
		logger.Error("Workbook write failed", err)
	}
}

// HandleSnapshot stores the default view's artifacts and returns their paths.
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshotter == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "snapshots are not configured")
		return
	}
	result, err := s.snapshotter.Run(r.Context())
	if err != nil {
		logger.Error("Snapshot failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to take snapshot")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSnapshotList lists stored snapshot pages, newest first.
func (s *Server) HandleSnapshotList(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "snapshots are not configured")
		return
	}
	pages, err := s.storage.ListSnapshots(r.Context(), 50)
	if err != nil {
		logger.Error("Snapshot listing failed", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshots": pages})
}

// HandleSnapshotFile proxies a stored snapshot artifact out of storage.
func (s *Server) HandleSnapshotFile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/snapshots/")
	if path == "" || strings.Contains(path, "..") {
		http.NotFound(w, r)
		return
	}
	data, err := s.storage.GetFile(r.Context(), path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", storage.ContentType(path))
	w.Write(data)
}

// HandleHealth reports service health as JSON.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.version,
		"checks": map[string]interface{}{
			"dataset":   "ok",
			"rows":      s.store.Len(),
			"countries": len(s.store.AllCountries()),
			"sessions":  s.sessions.Count(),
		},
	}
	writeJSON(w, http.StatusOK, health)
}
