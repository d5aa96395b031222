package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard is a derived snapshot of one fetched report collection.
type Dashboard struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Metrics     Metrics        `json:"metrics"`
	Chart       ChartData      `json:"chart"`
	Reports     []ReportRecord `json:"reports"`
}

// BuildDashboard derives metrics and chart data for reports. The snapshot
// keeps its own copy of the collection.
func BuildDashboard(reports []ReportRecord) Dashboard {
	own := make([]ReportRecord, len(reports))
	copy(own, reports)

	m := Aggregate(own)
	return Dashboard{
		ID:          uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
		Metrics:     m,
		Chart:       Shape(own, m),
		Reports:     own,
	}
}

// Filtered returns the snapshot's reports narrowed by selector (fail open).
func (d Dashboard) Filtered(selector string) []ReportRecord {
	return FilterByStatus(d.Reports, selector)
}
