package domain

import "sort"

// TopFacilitiesLimit is the number of facilities kept in the ranking chart.
const TopFacilitiesLimit = 8

// StatusSlice is one segment of the status distribution chart.
type StatusSlice struct {
	Category Status `json:"category"`
	Count    int    `json:"count"`
}

// FacilityTotal is one bar of the top-facilities chart.
type FacilityTotal struct {
	Name  string  `json:"name"`
	Beds  float64 `json:"beds"`
	Vents float64 `json:"vents"`
	Staff float64 `json:"staff"`
	Total float64 `json:"total"`
}

// ChartData holds both presentation-ready chart shapes.
type ChartData struct {
	StatusSplit   []StatusSlice   `json:"status_split"`
	TopFacilities []FacilityTotal `json:"top_facilities"`
}

// Shape builds chart data from reports and the metrics already derived from
// them. The status split always has CRITICAL then OK, even when both are 0.
func Shape(reports []ReportRecord, m Metrics) ChartData {
	split := []StatusSlice{
		{Category: StatusCritical, Count: m.CriticalCount},
		{Category: StatusOK, Count: m.OKCount},
	}

	totals := make([]FacilityTotal, len(reports))
	for i := range reports {
		totals[i] = facilityTotal(reports[i])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	if len(totals) > TopFacilitiesLimit {
		totals = totals[:TopFacilitiesLimit:TopFacilitiesLimit]
	}

	return ChartData{StatusSplit: split, TopFacilities: totals}
}

func facilityTotal(r ReportRecord) FacilityTotal {
	beds, vents, staff := r.ICUBeds.Float(), r.Ventilators.Float(), r.Staff.Float()
	return FacilityTotal{
		Name:  r.FacilityName,
		Beds:  beds,
		Vents: vents,
		Staff: staff,
		Total: beds + vents + staff,
	}
}
