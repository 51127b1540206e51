package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

// Required columns of the long-format CSV. Extra columns are ignored.
var requiredColumns = []string{"Area", "Category", "Variable", "Date", "Value"}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01",
	"01/02/2006",
}

// DataLoadError reports a fatal problem with the dataset file. Row is the
// 1-based CSV record number where the problem was found, 0 when the error
// is not tied to a specific row.
type DataLoadError struct {
	Path string
	Row  int
	Msg  string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("dataset %s row %d: %s: %v", e.Path, e.Row, e.Msg, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("dataset %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s", e.Path, e.Msg)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Options controls dataset loading.
type Options struct {
	// MinYear drops observations from earlier years. 0 disables the filter.
	MinYear int
}

// Store holds the loaded dataset. It is immutable after Load; the slices
// returned by its accessors are shared and must be treated as read-only.
type Store struct {
	path         string
	observations []models.Observation
	countries    []string
}

// Load reads the long-format CSV at path into memory. Any structural
// problem (missing file, missing required column, malformed date, malformed
// non-empty value) is a *DataLoadError. Rows whose Value cell is empty are
// skipped rather than rejected.
func Load(path string, opts Options) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Msg: "open dataset", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &DataLoadError{Path: path, Msg: "read header", Err: err}
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &DataLoadError{Path: path, Msg: fmt.Sprintf("missing required column %q", name)}
		}
	}
	dayCol, hasDay := cols["Day"]

	var (
		observations []models.Observation
		skipped      int
		row          = 1 // header was row 1
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &DataLoadError{Path: path, Row: row, Msg: "read record", Err: err}
		}

		rawValue := strings.TrimSpace(record[cols["Value"]])
		if rawValue == "" {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, &DataLoadError{Path: path, Row: row, Msg: fmt.Sprintf("parse value %q", rawValue), Err: err}
		}

		rawDate := strings.TrimSpace(record[cols["Date"]])
		date, err := parseDate(rawDate)
		if err != nil {
			return nil, &DataLoadError{Path: path, Row: row, Msg: fmt.Sprintf("parse date %q", rawDate), Err: err}
		}

		day := 1
		if hasDay {
			if rawDay := strings.TrimSpace(record[dayCol]); rawDay != "" {
				day, err = strconv.Atoi(rawDay)
				if err != nil {
					return nil, &DataLoadError{Path: path, Row: row, Msg: fmt.Sprintf("parse day %q", rawDay), Err: err}
				}
			}
		}

		if opts.MinYear > 0 && date.Year() < opts.MinYear {
			skipped++
			continue
		}

		observations = append(observations, models.Observation{
			Country:  strings.TrimSpace(record[cols["Area"]]),
			Category: strings.TrimSpace(record[cols["Category"]]),
			Variable: strings.TrimSpace(record[cols["Variable"]]),
			Date:     date,
			Year:     date.Year(),
			Month:    int(date.Month()),
			Day:      day,
			Value:    value,
		})
	}

	store := &Store{
		path:         path,
		observations: observations,
		countries:    distinctCountries(observations),
	}
	logger.Info("Dataset loaded", map[string]interface{}{
		"path":      path,
		"rows":      len(observations),
		"skipped":   skipped,
		"countries": len(store.countries),
	})
	return store, nil
}

func parseDate(raw string) (t time.Time, err error) {
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return t, err
}

func distinctCountries(observations []models.Observation) []string {
	seen := make(map[string]struct{})
	var countries []string
	for _, obs := range observations {
		if _, ok := seen[obs.Country]; !ok {
			seen[obs.Country] = struct{}{}
			countries = append(countries, obs.Country)
		}
	}
	sort.Strings(countries)
	return countries
}

// Observations returns every loaded row. Read-only.
func (s *Store) Observations() []models.Observation { return s.observations }

// AllCountries returns the distinct countries, lexicographically sorted.
// Computed once at load time. Read-only.
func (s *Store) AllCountries() []string { return s.countries }

// Len returns the number of loaded observations.
func (s *Store) Len() int { return len(s.observations) }

// Path returns the file the dataset was loaded from.
func (s *Store) Path() string { return s.path }
