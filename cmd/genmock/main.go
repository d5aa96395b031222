// Command genmock converts a facility CSV into the reporting API's monitor
// dashboard JSON, the fixture used by the poller and CLI test suites. Status
// is classified the way the API does it: zero ICU beds is CRITICAL. Rows whose
// ICU value is not a number get no status, and non-numeric metric cells are
// passed through as strings so the fixture exercises lenient decoding.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/facilities.csv \
//	  -out data/mock/facility_reports.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

var metricCols = []string{"icu_beds_available", "ventilators_available", "staff_on_duty"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "facility CSV file")
	out := flag.String("out", "", "output path for the dashboard JSON fixture")
	flag.Parse()

	if *csvPath == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -out")
	}

	rows, err := processCSV(*csvPath)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}
	log.Printf("facilities: %d", len(rows))

	if err := writeJSON(*out, rows); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	// Decode through the domain types so the stats match what the service sees.
	data, err := os.ReadFile(*out)
	if err != nil {
		return err
	}
	var reports []domain.ReportRecord
	if err := json.Unmarshal(data, &reports); err != nil {
		return fmt.Errorf("decode fixture: %w", err)
	}
	printStats(reports)
	return nil
}

func processCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := records[0]
	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[h] = i
	}

	rows := make([]map[string]any, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) < len(header) {
			continue
		}
		row := map[string]any{
			"facility_id":   n + 1,
			"facility_name": get(rec, colIdx, "facility_name"),
			"city":          get(rec, colIdx, "city"),
			"country":       get(rec, colIdx, "country"),
			"last_updated":  get(rec, colIdx, "last_updated"),
		}
		for _, col := range metricCols {
			row[col] = metricValue(get(rec, colIdx, col))
		}
		if beds, err := strconv.ParseFloat(get(rec, colIdx, "icu_beds_available"), 64); err == nil {
			row["status"] = string(domain.StatusOK)
			if beds == 0 {
				row["status"] = string(domain.StatusCritical)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// metricValue keeps numbers as JSON numbers, blanks as null, and anything
// else as the raw string.
func metricValue(s string) any {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return json.Number(s)
	}
	return s
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(reports []domain.ReportRecord) {
	m := domain.Aggregate(reports)
	chart := domain.Shape(reports, m)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d (critical=%d, ok=%d)\n", m.TotalFacilities, m.CriticalCount, m.OKCount)
	fmt.Printf("Sums: beds=%g vents=%g staff=%g\n", m.TotalBeds, m.TotalVents, m.TotalStaff)
	fmt.Printf("Maxima: beds=%g vents=%g staff=%g\n", m.Maxima.Beds, m.Maxima.Vents, m.Maxima.Staff)
	if m.LastUpdated != nil {
		fmt.Printf("Last updated: %s\n", m.LastUpdated.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Println("Top facilities:")
	for i, ft := range chart.TopFacilities {
		fmt.Printf("  %d. %s = %g\n", i+1, ft.Name, ft.Total)
	}
}
