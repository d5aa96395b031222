package domain

import "time"

// maximaFloor keeps per-metric maxima strictly positive so renderers can
// divide by them.
const maximaFloor = 1

// Maxima holds the per-metric maximum across a report collection.
type Maxima struct {
	Beds  float64 `json:"beds"`
	Vents float64 `json:"vents"`
	Staff float64 `json:"staff"`
}

// Metrics summarizes a report collection. It is recomputed from the input
// every time and carries no identity of its own.
type Metrics struct {
	TotalFacilities int        `json:"total_facilities"`
	CriticalCount   int        `json:"critical_count"`
	OKCount         int        `json:"ok_count"`
	TotalBeds       float64    `json:"total_beds"`
	TotalVents      float64    `json:"total_vents"`
	TotalStaff      float64    `json:"total_staff"`
	LastUpdated     *time.Time `json:"last_updated"`
	Maxima          Maxima     `json:"maxima"`
}

// Aggregate computes summary counters over reports in a single pass.
// Malformed metric values count as 0; unparsable timestamps are ignored.
func Aggregate(reports []ReportRecord) Metrics {
	m := Metrics{
		TotalFacilities: len(reports),
		Maxima:          Maxima{Beds: maximaFloor, Vents: maximaFloor, Staff: maximaFloor},
	}

	var latest time.Time
	var haveLatest bool

	for i := range reports {
		r := &reports[i]
		if r.StatusOf() == StatusCritical {
			m.CriticalCount++
		}

		beds, vents, staff := r.ICUBeds.Float(), r.Ventilators.Float(), r.Staff.Float()
		m.TotalBeds += beds
		m.TotalVents += vents
		m.TotalStaff += staff
		m.Maxima.Beds = max(m.Maxima.Beds, beds)
		m.Maxima.Vents = max(m.Maxima.Vents, vents)
		m.Maxima.Staff = max(m.Maxima.Staff, staff)

		if t, ok := r.LastUpdatedAt(); ok && (!haveLatest || t.After(latest)) {
			latest, haveLatest = t, true
		}
	}

	m.OKCount = m.TotalFacilities - m.CriticalCount
	if haveLatest {
		m.LastUpdated = &latest
	}
	return m
}
