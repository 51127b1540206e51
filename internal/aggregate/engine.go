// Package aggregate derives chart-ready structures from raw observations.
// All functions are pure: they never mutate their inputs and hold no state.
package aggregate

import (
	"sort"
	"strconv"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

// Point is one dated value in a line series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// LineSeries is one country's date-ordered trace plus the positions of its
// extrema. MinIndex and MaxIndex are -1 when the series has no points; ties
// resolve to the earliest point in date order.
type LineSeries struct {
	Country  string  `json:"country"`
	Points   []Point `json:"points"`
	MinIndex int     `json:"min_index"`
	MaxIndex int     `json:"max_index"`
}

// HeatmapMatrix is the country x time-bucket pivot of mean values.
// Rows follow first appearance in the source subset, columns are the
// ascending buckets present in it. Cells for absent (country, bucket)
// combinations hold exactly 0, indistinguishable from a true zero mean.
type HeatmapMatrix struct {
	Unit      models.BucketUnit `json:"unit"`
	Countries []string          `json:"countries"`
	Buckets   []string          `json:"buckets"`
	Cells     [][]float64       `json:"cells"`
}

// IsEmpty reports whether the matrix has no rows or no columns.
func (m HeatmapMatrix) IsEmpty() bool {
	return len(m.Countries) == 0 || len(m.Buckets) == 0
}

// ValueRange returns the smallest and largest cell values, (0, 0) for an
// empty matrix. Used to anchor the heatmap color scale.
func (m HeatmapMatrix) ValueRange() (min, max float64) {
	first := true
	for _, row := range m.Cells {
		for _, v := range row {
			if first {
				min, max = v, v
				first = false
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// FilterByMetric keeps observations whose country is in selection and whose
// category/variable match the metric, preserving input order. An empty
// selection yields an empty subset; so does a selection with no data. Both
// are valid states, not errors.
func FilterByMetric(observations []models.Observation, selection []string, metric models.Metric) []models.Observation {
	if len(selection) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(selection))
	for _, country := range selection {
		selected[country] = struct{}{}
	}

	var subset []models.Observation
	for _, obs := range observations {
		if obs.Category != metric.Category || obs.Variable != metric.Variable {
			continue
		}
		if _, ok := selected[obs.Country]; !ok {
			continue
		}
		subset = append(subset, obs)
	}
	return subset
}

// ComputeLineSeries groups the subset by country, one series per country in
// order of first appearance, points sorted ascending by date.
func ComputeLineSeries(subset []models.Observation) []LineSeries {
	points := make(map[string][]Point)
	var order []string
	for _, obs := range subset {
		if _, ok := points[obs.Country]; !ok {
			order = append(order, obs.Country)
		}
		points[obs.Country] = append(points[obs.Country], Point{Date: obs.Date, Value: obs.Value})
	}

	series := make([]LineSeries, 0, len(order))
	for _, country := range order {
		pts := points[country]
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

		minIdx, maxIdx := -1, -1
		for i, p := range pts {
			if minIdx == -1 || p.Value < pts[minIdx].Value {
				minIdx = i
			}
			if maxIdx == -1 || p.Value > pts[maxIdx].Value {
				maxIdx = i
			}
		}

		series = append(series, LineSeries{
			Country:  country,
			Points:   pts,
			MinIndex: minIdx,
			MaxIndex: maxIdx,
		})
	}
	return series
}

// ComputeHeatmap pivots the subset into country rows and time-bucket columns
// of arithmetic means. The bucket unit is always explicit so month and year
// groupings stay a configuration choice rather than a silent difference.
func ComputeHeatmap(subset []models.Observation, unit models.BucketUnit) HeatmapMatrix {
	m := HeatmapMatrix{Unit: unit}
	if len(subset) == 0 {
		return m
	}

	type cellKey struct {
		country string
		bucket  int
	}
	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	seenCountry := make(map[string]struct{})
	seenBucket := make(map[int]struct{})
	var buckets []int

	for _, obs := range subset {
		bucket := obs.Year
		if unit == models.BucketMonth {
			bucket = obs.Month
		}
		if _, ok := seenCountry[obs.Country]; !ok {
			seenCountry[obs.Country] = struct{}{}
			m.Countries = append(m.Countries, obs.Country)
		}
		if _, ok := seenBucket[bucket]; !ok {
			seenBucket[bucket] = struct{}{}
			buckets = append(buckets, bucket)
		}
		key := cellKey{obs.Country, bucket}
		sums[key] += obs.Value
		counts[key]++
	}
	sort.Ints(buckets)

	m.Buckets = make([]string, len(buckets))
	for i, b := range buckets {
		if unit == models.BucketMonth {
			m.Buckets[i] = models.MonthLabels[b-1]
		} else {
			m.Buckets[i] = strconv.Itoa(b)
		}
	}

	m.Cells = make([][]float64, len(m.Countries))
	for i, country := range m.Countries {
		row := make([]float64, len(buckets))
		for j, bucket := range buckets {
			key := cellKey{country, bucket}
			if n := counts[key]; n > 0 {
				row[j] = sums[key] / float64(n)
			}
			// absent combinations stay exactly 0
		}
		m.Cells[i] = row
	}
	return m
}
