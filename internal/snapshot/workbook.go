// Package snapshot renders the dashboard's current aggregates to static
// artifacts (PNG, XLSX, printable HTML) and stores them.
package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
)

const (
	sheetLineSeries = "Line Series"
	sheetHeatmap    = "Heatmap"
)

// BuildWorkbook assembles an Excel workbook from the aggregation results:
// a "Line Series" sheet with date rows and one value column per country, and
// a "Heatmap" sheet with country rows and time-bucket columns of means.
// The caller owns the returned file and must Close it.
func BuildWorkbook(series []aggregate.LineSeries, matrix aggregate.HeatmapMatrix) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeLineSheet(f, series); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeHeatmapSheet(f, matrix); err != nil {
		f.Close()
		return nil, err
	}
	// Drop the default sheet excelize creates.
	if idx, err := f.GetSheetIndex(sheetLineSeries); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeLineSheet(f *excelize.File, series []aggregate.LineSeries) error {
	if _, err := f.NewSheet(sheetLineSeries); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetLineSeries, err)
	}

	// Union of all dates across the series makes the row axis; countries
	// missing a date leave its cell blank.
	dateSet := make(map[time.Time]struct{})
	values := make(map[string]map[time.Time]float64, len(series))
	for _, s := range series {
		byDate := make(map[time.Time]float64, len(s.Points))
		for _, p := range s.Points {
			dateSet[p.Date] = struct{}{}
			byDate[p.Date] = p.Value
		}
		values[s.Country] = byDate
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if err := setCell(f, sheetLineSeries, 1, 1, "Date"); err != nil {
		return err
	}
	for col, s := range series {
		if err := setCell(f, sheetLineSeries, col+2, 1, s.Country); err != nil {
			return err
		}
	}
	for row, date := range dates {
		if err := setCell(f, sheetLineSeries, 1, row+2, date.Format("2006-01-02")); err != nil {
			return err
		}
		for col, s := range series {
			if v, ok := values[s.Country][date]; ok {
				if err := setCell(f, sheetLineSeries, col+2, row+2, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeHeatmapSheet(f *excelize.File, matrix aggregate.HeatmapMatrix) error {
	if _, err := f.NewSheet(sheetHeatmap); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetHeatmap, err)
	}

	if err := setCell(f, sheetHeatmap, 1, 1, "Country"); err != nil {
		return err
	}
	for col, bucket := range matrix.Buckets {
		if err := setCell(f, sheetHeatmap, col+2, 1, bucket); err != nil {
			return err
		}
	}
	for row, country := range matrix.Countries {
		if err := setCell(f, sheetHeatmap, 1, row+2, country); err != nil {
			return err
		}
		for col := range matrix.Buckets {
			if err := setCell(f, sheetHeatmap, col+2, row+2, matrix.Cells[row][col]); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to name cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
