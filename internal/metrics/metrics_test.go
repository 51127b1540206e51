package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWrapHandlerRecordsRequests(t *testing.T) {
	m := New(func() int { return 3 })

	handler := m.WrapHandler("/api/selection", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/selection", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	handler.ServeHTTP(rec, req)

	body := scrape(t, m)
	if !strings.Contains(body, `http_requests_total{route="/api/selection",status="200"} 2`) {
		t.Errorf("Expected request counter at 2, got:\n%s", body)
	}
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Error("Expected duration histogram in exposition output")
	}
}

func TestActiveSessionsGauge(t *testing.T) {
	count := 0
	m := New(func() int { return count })

	count = 5
	body := scrape(t, m)
	if !strings.Contains(body, "active_sessions 5") {
		t.Errorf("Expected active_sessions 5, got:\n%s", body)
	}
}

func TestRecomputeAndTickCounters(t *testing.T) {
	m := New(nil)
	m.ObserveRecompute("tick", 2*time.Millisecond)
	m.AnimationTick()
	m.AnimationTick()

	body := scrape(t, m)
	if !strings.Contains(body, `recompute_duration_seconds_count{kind="tick"} 1`) {
		t.Errorf("Expected one recompute observation, got:\n%s", body)
	}
	if !strings.Contains(body, "animation_ticks_total 2") {
		t.Errorf("Expected animation_ticks_total 2, got:\n%s", body)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.ObserveRecompute("view", time.Millisecond)
	m.AnimationTick()

	called := false
	handler := m.WrapHandler("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("Nil metrics should pass requests through")
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Metrics scrape returned status %d", rec.Code)
	}
	return rec.Body.String()
}
