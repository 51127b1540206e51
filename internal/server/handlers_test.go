package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/config"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/controller"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dashboard"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dataset"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/fetchers"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/llm"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/metrics"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/session"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

const handlersCSV = `Area,Category,Variable,Date,Value
Austria,Power sector emissions,CO2 intensity,2022-01-01,120.5
Austria,Power sector emissions,CO2 intensity,2022-02-01,110.2
Belgium,Power sector emissions,CO2 intensity,2022-01-01,140.9
Belgium,Power sector emissions,CO2 intensity,2022-02-01,152.3
Croatia,Power sector emissions,CO2 intensity,2022-01-01,210.0
`

func newHandlerServer(t *testing.T, store storage.Client) *Server {
	t.Helper()

	dataFile := filepath.Join(t.TempDir(), "monthly.csv")
	if err := os.WriteFile(dataFile, []byte(handlersCSV), 0644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	ds, err := dataset.Load(dataFile, dataset.Options{})
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	renderer := charts.NewRenderer(charts.Config{
		MetricLabel: models.CO2IntensityLabel,
		TimeBucket:  models.BucketMonth,
		ShowExtrema: true,
	})
	ctrl := controller.New(ds, renderer, models.CO2Intensity, models.BucketMonth, 2*time.Second)
	sessions := session.NewManager([]string{"Austria", "Belgium"}, time.Hour)
	t.Cleanup(sessions.Close)

	builder, err := dashboard.NewBuilder(models.BucketMonth)
	if err != nil {
		t.Fatalf("Failed to build dashboard: %v", err)
	}

	return NewServer(Options{
		Config:     &config.Config{Port: "0", TimeBucket: "month"},
		Store:      ds,
		Sessions:   sessions,
		Controller: ctrl,
		Dashboard:  builder,
		News:       fetchers.NewNewsFetcher("", time.Minute, 5),
		LLM:        llm.NewOpenAIClient("", ""),
		Metrics:    metrics.New(sessions.Count),
		Storage:    store,
		Version:    "test",
	})
}

func newSessionClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func decodeUpdate(t *testing.T, resp *http.Response) controller.Update {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var update controller.Update
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		t.Fatalf("Response is not an Update: %v", err)
	}
	return update
}

func TestToggleAndTickFlow(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()
	client := newSessionClient(t)

	// A tick while stopped echoes state without charts.
	resp, err := client.Post(ts.URL+"/api/animation/tick", "application/json", nil)
	if err != nil {
		t.Fatalf("Tick request failed: %v", err)
	}
	update := decodeUpdate(t, resp)
	if update.Running {
		t.Error("Animation should start stopped")
	}
	if update.Line != nil {
		t.Error("Stale tick must not carry chart payloads")
	}

	resp, err = client.Post(ts.URL+"/api/animation/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("Toggle request failed: %v", err)
	}
	update = decodeUpdate(t, resp)
	if !update.Running {
		t.Fatal("Toggle should start the animation")
	}
	if update.ButtonLabel != "Stop animation" {
		t.Errorf("Expected Stop animation label, got %q", update.ButtonLabel)
	}
	if update.Line != nil {
		t.Error("Toggle must not recompute charts")
	}

	// Dataset has 3 countries; the first tick selects all[0:1].
	resp, err = client.Post(ts.URL+"/api/animation/tick", "application/json", nil)
	if err != nil {
		t.Fatalf("Tick request failed: %v", err)
	}
	update = decodeUpdate(t, resp)
	if len(update.Selection) != 1 || update.Selection[0] != "Austria" {
		t.Errorf("Expected first tick selection [Austria], got %v", update.Selection)
	}
	if update.Line == nil || update.Heatmap == nil {
		t.Error("An applied tick must return both chart payloads")
	}

	resp, err = client.Post(ts.URL+"/api/animation/tick", "application/json", nil)
	if err != nil {
		t.Fatalf("Tick request failed: %v", err)
	}
	update = decodeUpdate(t, resp)
	if len(update.Selection) != 2 {
		t.Errorf("Expected the selection to grow to 2, got %v", update.Selection)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()

	first := newSessionClient(t)
	second := newSessionClient(t)

	resp, err := first.Post(ts.URL+"/api/selection", "application/json", strings.NewReader(`{"countries":["Croatia"]}`))
	if err != nil {
		t.Fatalf("Selection request failed: %v", err)
	}
	update := decodeUpdate(t, resp)
	if len(update.Selection) != 1 || update.Selection[0] != "Croatia" {
		t.Fatalf("Expected [Croatia], got %v", update.Selection)
	}

	// The second browser still sees the default selection.
	resp, err = second.Post(ts.URL+"/api/animation/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("Toggle request failed: %v", err)
	}
	update = decodeUpdate(t, resp)
	if len(update.Selection) != 2 {
		t.Errorf("Second session should keep the default selection, got %v", update.Selection)
	}
}

func TestCountriesEndpoint(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/countries")
	if err != nil {
		t.Fatalf("Countries request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Countries []string `json:"countries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	want := []string{"Austria", "Belgium", "Croatia"}
	if len(body.Countries) != len(want) {
		t.Fatalf("Expected %v, got %v", want, body.Countries)
	}
	for i, c := range want {
		if body.Countries[i] != c {
			t.Errorf("Expected %s at %d, got %s", c, i, body.Countries[i])
		}
	}
}

func TestLinePNGExportEmptySelection(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()
	client := newSessionClient(t)

	resp, err := client.Post(ts.URL+"/api/selection", "application/json", strings.NewReader(`{"countries":[]}`))
	if err != nil {
		t.Fatalf("Selection request failed: %v", err)
	}
	decodeUpdate(t, resp)

	resp, err = client.Get(ts.URL + "/export/linechart.png")
	if err != nil {
		t.Fatalf("PNG export failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Empty export should be 404, got %d", resp.StatusCode)
	}
}

func TestXLSXExport(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()
	client := newSessionClient(t)

	resp, err := client.Get(ts.URL + "/export/data.xlsx")
	if err != nil {
		t.Fatalf("XLSX export failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Errorf("Unexpected content type %q", ct)
	}
}

func TestSnapshotNotConfigured(t *testing.T) {
	srv := newHandlerServer(t, nil)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/snapshot", "application/json", nil)
	if err != nil {
		t.Fatalf("Snapshot request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a snapshotter, got %d", resp.StatusCode)
	}
}

func TestSnapshotFileServing(t *testing.T) {
	store, err := storage.NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	srv := newHandlerServer(t, store)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()

	if err := store.StoreFile(context.Background(), "2022/01/05/Snapshot-2022-01-05-10-00-00/index.html", []byte("<html>ok</html>")); err != nil {
		t.Fatalf("Failed to store file: %v", err)
	}

	resp, err := http.Get(ts.URL + "/snapshots/2022/01/05/Snapshot-2022-01-05-10-00-00/index.html")
	if err != nil {
		t.Fatalf("Snapshot file request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Unexpected content type %q", ct)
	}

	resp, err = http.Get(ts.URL + "/snapshots/../go.mod")
	if err != nil {
		t.Fatalf("Traversal request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Path traversal should be rejected, got %d", resp.StatusCode)
	}
}
