package models

import "time"

// Observation is one row of the long-format electricity dataset:
// a single metric value for one country and one month.
type Observation struct {
	Country  string    `json:"country"`  // "Area" column
	Category string    `json:"category"` // metric group, e.g. "Power sector emissions"
	Variable string    `json:"variable"` // metric name within the category
	Date     time.Time `json:"date"`     // observation date as parsed from the source
	Year     int       `json:"year"`     // derived from Date
	Month    int       `json:"month"`    // derived from Date, 1-12
	Day      int       `json:"day"`      // source day of month, 1 when the source has no day column
	Value    float64   `json:"value"`    // metric value, gCO2e/kWh for the default metric
}

// Metric identifies one measurable series in the dataset.
type Metric struct {
	Category string `json:"category"`
	Variable string `json:"variable"`
}

// CO2Intensity is the metric this service visualizes.
var CO2Intensity = Metric{
	Category: "Power sector emissions",
	Variable: "CO2 intensity",
}

// CO2IntensityLabel is the human-readable axis/title label for CO2Intensity.
const CO2IntensityLabel = "CO₂ Intensity (gCO2e/kWh)"

// BucketUnit selects how heatmap columns group time.
type BucketUnit string

const (
	BucketMonth BucketUnit = "month"
	BucketYear  BucketUnit = "year"
)

// MonthLabels maps month number 1-12 to its heatmap column label.
var MonthLabels = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
