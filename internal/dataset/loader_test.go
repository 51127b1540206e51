package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fixturePath = "testdata/monthly.csv"

func TestLoadParsesObservations(t *testing.T) {
	store, err := Load(fixturePath, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 7 data rows, one with an empty Value cell
	if store.Len() != 6 {
		t.Errorf("Expected 6 observations, got %d", store.Len())
	}

	first := store.Observations()[0]
	if first.Country != "Austria" {
		t.Errorf("Expected country Austria, got %q", first.Country)
	}
	if first.Category != "Power sector emissions" || first.Variable != "CO2 intensity" {
		t.Errorf("Unexpected metric: %q / %q", first.Category, first.Variable)
	}
	if first.Year != 2023 || first.Month != 1 || first.Day != 1 {
		t.Errorf("Expected date parts 2023/1/1, got %d/%d/%d", first.Year, first.Month, first.Day)
	}
	if first.Value != 110.5 {
		t.Errorf("Expected value 110.5, got %v", first.Value)
	}
}

func TestLoadComputesSortedCountries(t *testing.T) {
	store, err := Load(fixturePath, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	countries := store.AllCountries()
	expected := []string{"Austria", "Belgium", "Cyprus"}
	if len(countries) != len(expected) {
		t.Fatalf("Expected %d countries, got %d: %v", len(expected), len(countries), countries)
	}
	for i, want := range expected {
		if countries[i] != want {
			t.Errorf("Country %d: expected %q, got %q", i, want, countries[i])
		}
	}
}

func TestLoadSkipsEmptyValueRows(t *testing.T) {
	store, err := Load(fixturePath, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, obs := range store.Observations() {
		if obs.Country == "Belgium" && obs.Month == 2 {
			t.Errorf("Row with empty value should have been skipped: %+v", obs)
		}
	}
}

func TestLoadMinYearFilter(t *testing.T) {
	store, err := Load(fixturePath, Options{MinYear: 2023})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.Len() != 5 {
		t.Errorf("Expected 5 observations after year filter, got %d", store.Len())
	}
	for _, obs := range store.Observations() {
		if obs.Year < 2023 {
			t.Errorf("Observation from %d survived MinYear=2023 filter", obs.Year)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv", Options{})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *DataLoadError, got %T: %v", err, err)
	}
	if loadErr.Path != "testdata/does-not-exist.csv" {
		t.Errorf("Error should carry the dataset path, got %q", loadErr.Path)
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, "Area,Category,Date,Value\nAustria,Power sector emissions,2023-01-01,1.0\n")

	_, err := Load(path, Options{})
	if err == nil {
		t.Fatal("Expected error for missing Variable column")
	}

	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *DataLoadError, got %T: %v", err, err)
	}
}

func TestLoadUnparseableDate(t *testing.T) {
	path := writeTempCSV(t, "Area,Category,Variable,Date,Value\nAustria,Power sector emissions,CO2 intensity,not-a-date,1.0\n")

	_, err := Load(path, Options{})
	if err == nil {
		t.Fatal("Expected error for unparseable date")
	}

	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *DataLoadError, got %T: %v", err, err)
	}
	if loadErr.Row != 2 {
		t.Errorf("Expected error at row 2, got row %d", loadErr.Row)
	}
}

func TestLoadUnparseableValue(t *testing.T) {
	path := writeTempCSV(t, "Area,Category,Variable,Date,Value\nAustria,Power sector emissions,CO2 intensity,2023-01-01,abc\n")

	_, err := Load(path, Options{})
	if err == nil {
		t.Fatal("Expected error for unparseable value")
	}
}

func TestLoadDayColumn(t *testing.T) {
	path := writeTempCSV(t, "Area,Category,Variable,Date,Day,Value\nAustria,Power sector emissions,CO2 intensity,2023-01-15,15,1.0\n")

	store, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Expected 1 observation, got %d", store.Len())
	}
	if got := store.Observations()[0].Day; got != 15 {
		t.Errorf("Expected Day 15 from Day column, got %d", got)
	}
}

func TestLoadAlternateDateLayouts(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"year-month", "2023-03"},
		{"rfc3339", "2023-03-01T00:00:00Z"},
		{"us-slash", "03/01/2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, "Area,Category,Variable,Date,Value\nAustria,Power sector emissions,CO2 intensity,"+tt.date+",1.0\n")

			store, err := Load(path, Options{})
			if err != nil {
				t.Fatalf("Load failed for date %q: %v", tt.date, err)
			}
			obs := store.Observations()[0]
			if obs.Year != 2023 || obs.Month != 3 {
				t.Errorf("Expected 2023-03 from %q, got %d-%02d", tt.date, obs.Year, obs.Month)
			}
		})
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}
