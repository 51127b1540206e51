// Package llm generates short written commentary on the charted data using
// the OpenAI API.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yuin/goldmark"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
)

const systemPrompt = `You are an energy-data analyst. You receive per-country
CO2-intensity-of-electricity series (gCO2e/kWh) and their aggregated means.
Write a short markdown commentary (3-6 bullet points) on the selected
countries: levels, trends between the first and last observation, and the
position of each country's minimum and maximum. Be factual, cite numbers from
the data, and do not speculate beyond it.`

// OpenAIClient generates dashboard insights through the chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client. An empty apiKey yields a disabled client
// whose GenerateInsights always errors; callers gate on Enabled.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	c := &OpenAIClient{model: model}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

// Enabled reports whether an API key was configured.
func (c *OpenAIClient) Enabled() bool { return c.client != nil }

// GenerateInsights asks the model for a markdown commentary on the current
// selection's aggregates.
func (c *OpenAIClient) GenerateInsights(ctx context.Context, series []aggregate.LineSeries, matrix aggregate.HeatmapMatrix) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("OpenAI client not configured")
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no data selected to comment on")
	}

	prompt := buildPrompt(series, matrix)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	insights := resp.Choices[0].Message.Content
	logger.Debug("Insights generated", map[string]interface{}{"chars": len(insights)})
	return insights, nil
}

// buildPrompt summarizes the aggregates compactly: per-country first/last
// observations and extrema, plus the heatmap means. The raw series would blow
// the context for long selections.
func buildPrompt(series []aggregate.LineSeries, matrix aggregate.HeatmapMatrix) string {
	var b strings.Builder
	b.WriteString("Selected countries and their CO2 intensity series:\n\n")
	for _, s := range series {
		if len(s.Points) == 0 {
			fmt.Fprintf(&b, "- %s: no data\n", s.Country)
			continue
		}
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		fmt.Fprintf(&b, "- %s: %d observations, %s (%.1f) to %s (%.1f)",
			s.Country, len(s.Points),
			first.Date.Format("2006-01"), first.Value,
			last.Date.Format("2006-01"), last.Value)
		if s.MinIndex >= 0 && s.MaxIndex >= 0 {
			min, max := s.Points[s.MinIndex], s.Points[s.MaxIndex]
			fmt.Fprintf(&b, "; min %.1f at %s, max %.1f at %s",
				min.Value, min.Date.Format("2006-01"),
				max.Value, max.Date.Format("2006-01"))
		}
		b.WriteString("\n")
	}

	if !matrix.IsEmpty() {
		fmt.Fprintf(&b, "\nMean intensity per %s bucket (columns: %s):\n",
			matrix.Unit, strings.Join(matrix.Buckets, ", "))
		for i, country := range matrix.Countries {
			cells := make([]string, len(matrix.Cells[i]))
			for j, v := range matrix.Cells[i] {
				cells[j] = fmt.Sprintf("%.1f", v)
			}
			fmt.Fprintf(&b, "- %s: %s\n", country, strings.Join(cells, ", "))
		}
	}
	return b.String()
}

// MarkdownToHTML renders model output for embedding in the dashboard.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
