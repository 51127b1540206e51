package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

func sampleSeries() []aggregate.LineSeries {
	return []aggregate.LineSeries{
		{
			Country: "Germany",
			Points: []aggregate.Point{
				{Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Value: 400},
				{Date: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), Value: 320},
				{Date: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), Value: 450},
			},
			MinIndex: 1,
			MaxIndex: 2,
		},
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewOpenAIClient("", "gpt-4.1")
	if c.Enabled() {
		t.Error("Client without API key should be disabled")
	}
	if _, err := c.GenerateInsights(context.Background(), sampleSeries(), aggregate.HeatmapMatrix{}); err == nil {
		t.Error("Disabled client should error on GenerateInsights")
	}
}

func TestGenerateInsightsRequiresData(t *testing.T) {
	c := NewOpenAIClient("sk-test", "gpt-4.1")
	if _, err := c.GenerateInsights(context.Background(), nil, aggregate.HeatmapMatrix{}); err == nil {
		t.Error("Expected error for an empty selection")
	}
}

func TestBuildPrompt(t *testing.T) {
	matrix := aggregate.HeatmapMatrix{
		Unit:      models.BucketMonth,
		Countries: []string{"Germany"},
		Buckets:   []string{"Jan", "Feb", "Mar"},
		Cells:     [][]float64{{400, 320, 450}},
	}

	prompt := buildPrompt(sampleSeries(), matrix)

	for _, want := range []string{
		"Germany: 3 observations",
		"2021-01 (400.0) to 2021-03 (450.0)",
		"min 320.0 at 2021-02",
		"max 450.0 at 2021-03",
		"Jan, Feb, Mar",
		"400.0, 320.0, 450.0",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptEmptySeries(t *testing.T) {
	prompt := buildPrompt([]aggregate.LineSeries{{Country: "Malta"}}, aggregate.HeatmapMatrix{})
	if !strings.Contains(prompt, "Malta: no data") {
		t.Errorf("Expected dataless country to be marked, got:\n%s", prompt)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("# Title\n\n- first\n- second\n")
	if err != nil {
		t.Fatalf("MarkdownToHTML failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("Expected rendered heading, got %q", html)
	}
	if !strings.Contains(html, "<li>first</li>") {
		t.Errorf("Expected rendered list, got %q", html)
	}
}
