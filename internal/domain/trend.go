package domain

import (
	"sort"
	"time"
)

// TrendPoint is one timestamped observation in a facility's history.
type TrendPoint struct {
	At    time.Time `json:"at"`
	Beds  float64   `json:"beds"`
	Vents float64   `json:"vents"`
	Staff float64   `json:"staff"`
	Total float64   `json:"total"`
}

// ShapeTrend turns a facility's historical records into chronologically
// ordered points. Records without a parsable timestamp cannot be placed on
// the time axis and are dropped.
func ShapeTrend(history []ReportRecord) []TrendPoint {
	points := make([]TrendPoint, 0, len(history))
	for i := range history {
		at, ok := history[i].LastUpdatedAt()
		if !ok {
			continue
		}
		ft := facilityTotal(history[i])
		points = append(points, TrendPoint{
			At:    at,
			Beds:  ft.Beds,
			Vents: ft.Vents,
			Staff: ft.Staff,
			Total: ft.Total,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].At.Before(points[j].At)
	})
	return points
}
