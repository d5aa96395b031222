package domain

// Series names a bar series in the top-facilities chart.
type Series string

const (
	SeriesBeds  Series = "beds"
	SeriesVents Series = "vents"
	SeriesStaff Series = "staff"
)

// SeriesVisibility tracks which bar series are drawn.
type SeriesVisibility struct {
	Beds  bool `json:"beds"`
	Vents bool `json:"vents"`
	Staff bool `json:"staff"`
}

// TrendModal is the state of an open facility trend view.
type TrendModal struct {
	FacilityID FacilityID   `json:"facility_id"`
	Loading    bool         `json:"loading"`
	Points     []TrendPoint `json:"points"`
	Err        string       `json:"error,omitempty"`
}

// ViewState is the interactive state of a monitor dashboard. Derived values
// (metrics, charts, filtered rows) are never stored here; see Derive.
type ViewState struct {
	Reports          []ReportRecord   `json:"reports"`
	Loading          bool             `json:"loading"`
	Err              string           `json:"error,omitempty"`
	RequestSeq       uint64           `json:"request_seq"`
	StatusFilter     StatusFilter     `json:"status_filter"`
	SelectedFacility string           `json:"selected_facility,omitempty"`
	Series           SeriesVisibility `json:"series"`
	Trend            *TrendModal      `json:"trend,omitempty"`
}

// NewViewState returns the state of a freshly opened dashboard.
func NewViewState() ViewState {
	return ViewState{
		Loading:      true,
		StatusFilter: FilterAll,
		Series:       SeriesVisibility{Beds: true, Vents: true, Staff: true},
	}
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

type (
	// ReportsRequested marks the start of fetch number Seq.
	ReportsRequested struct{ Seq uint64 }
	// ReportsLoaded delivers the result of fetch Seq.
	ReportsLoaded struct {
		Seq     uint64
		Reports []ReportRecord
	}
	// ReportsFailed delivers the failure of fetch Seq.
	ReportsFailed struct {
		Seq     uint64
		Message string
	}
	StatusFilterSelected struct{ Filter string }
	FilterCleared        struct{}
	FacilitySelected     struct{ Name string }
	SelectionCleared     struct{}
	SeriesToggled        struct {
		Series  Series
		Visible bool
	}
	TrendOpened struct{ FacilityID FacilityID }
	TrendLoaded struct {
		FacilityID FacilityID
		History    []ReportRecord
	}
	TrendFailed struct {
		FacilityID FacilityID
		Message    string
	}
	TrendClosed struct{}
)

func (ReportsRequested) isEvent()     {}
func (ReportsLoaded) isEvent()        {}
func (ReportsFailed) isEvent()        {}
func (StatusFilterSelected) isEvent() {}
func (FilterCleared) isEvent()        {}
func (FacilitySelected) isEvent()     {}
func (SelectionCleared) isEvent()     {}
func (SeriesToggled) isEvent()        {}
func (TrendOpened) isEvent()          {}
func (TrendLoaded) isEvent()          {}
func (TrendFailed) isEvent()          {}
func (TrendClosed) isEvent()          {}

// Reduce returns the state that results from applying ev to s. Requests and
// results of superseded fetches (Seq older than the latest request) are
// ignored.
func Reduce(s ViewState, ev Event) ViewState {
	switch e := ev.(type) {
	case ReportsRequested:
		if e.Seq <= s.RequestSeq {
			return s
		}
		s.RequestSeq = e.Seq
		s.Loading = true
	case ReportsLoaded:
		if e.Seq != s.RequestSeq {
			return s
		}
		s.Reports = e.Reports
		s.Err = ""
		s.Loading = false
	case ReportsFailed:
		if e.Seq != s.RequestSeq {
			return s
		}
		s.Err = e.Message
		s.Loading = false
	case StatusFilterSelected:
		s.StatusFilter = NormalizeStatusFilter(e.Filter)
		s.SelectedFacility = ""
	case FilterCleared:
		s.StatusFilter = FilterAll
	case FacilitySelected:
		s.SelectedFacility = e.Name
	case SelectionCleared:
		s.SelectedFacility = ""
	case SeriesToggled:
		switch e.Series {
		case SeriesBeds:
			s.Series.Beds = e.Visible
		case SeriesVents:
			s.Series.Vents = e.Visible
		case SeriesStaff:
			s.Series.Staff = e.Visible
		}
	case TrendOpened:
		s.Trend = &TrendModal{FacilityID: e.FacilityID, Loading: true}
	case TrendLoaded:
		if s.Trend == nil || s.Trend.FacilityID != e.FacilityID {
			return s
		}
		s.Trend = &TrendModal{FacilityID: e.FacilityID, Points: ShapeTrend(e.History)}
	case TrendFailed:
		if s.Trend == nil || s.Trend.FacilityID != e.FacilityID {
			return s
		}
		s.Trend = &TrendModal{FacilityID: e.FacilityID, Err: e.Message}
	case TrendClosed:
		s.Trend = nil
	}
	return s
}

// View is everything a renderer needs, recomputed from a ViewState.
type View struct {
	Metrics Metrics        `json:"metrics"`
	Chart   ChartData      `json:"chart"`
	Rows    []ReportRecord `json:"rows"`
	Empty   bool           `json:"empty"`
}

// Derive computes the view for s using the pure dashboard functions.
func Derive(s ViewState) View {
	m := Aggregate(s.Reports)
	return View{
		Metrics: m,
		Chart:   Shape(s.Reports, m),
		Rows:    FilterByStatus(s.Reports, string(s.StatusFilter)),
		Empty:   len(s.Reports) == 0,
	}
}
