package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Count
	}{
		{name: "integer", input: `7`, want: Count{Value: 7, Valid: true}},
		{name: "decimal", input: `2.5`, want: Count{Value: 2.5, Valid: true}},
		{name: "negative", input: `-3`, want: Count{Value: -3, Valid: true}},
		{name: "numeric string", input: `"12"`, want: Count{Value: 12, Valid: true}},
		{name: "padded numeric string", input: `" 4 "`, want: Count{Value: 4, Valid: true}},
		{name: "non-numeric string", input: `"abc"`, want: Count{}},
		{name: "empty string", input: `""`, want: Count{}},
		{name: "NaN string", input: `"NaN"`, want: Count{}},
		{name: "infinity string", input: `"Infinity"`, want: Count{}},
		{name: "null", input: `null`, want: Count{}},
		{name: "boolean", input: `true`, want: Count{}},
		{name: "object", input: `{"n":1}`, want: Count{}},
		{name: "array", input: `[1]`, want: Count{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, tt.want, c)
			assert.False(t, math.IsNaN(c.Float()))
		})
	}
}

func TestCount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Count `json:"a"`
		B Count `json:"b"`
	}{A: CountOf(3), B: Count{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(data))
}

func TestCountOf_NonFinite(t *testing.T) {
	assert.False(t, CountOf(math.NaN()).Valid)
	assert.False(t, CountOf(math.Inf(1)).Valid)
	assert.Zero(t, CountOf(math.Inf(-1)).Float())
}

func TestReportRecord_DecodeLenient(t *testing.T) {
	data := []byte(`[
		{"facility_name":"Central Hospital","city":"Accra","icu_beds_available":"abc",
		 "ventilators_available":"3","staff_on_duty":null,"status":"CRITICAL",
		 "last_updated":"2025-03-02T09:14:00Z","facility_id":17},
		{"facility_name":"North Clinic","facility_id":"nc-2"}
	]`)

	var reports []ReportRecord
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 2)

	central := reports[0]
	assert.Equal(t, "Central Hospital", central.FacilityName)
	require.NotNil(t, central.City)
	assert.Equal(t, "Accra", *central.City)
	assert.Nil(t, central.Country)
	assert.False(t, central.ICUBeds.Valid)
	assert.Zero(t, central.ICUBeds.Float())
	assert.Equal(t, 3.0, central.Ventilators.Float())
	assert.False(t, central.Staff.Valid)
	assert.Equal(t, StatusCritical, central.StatusOf())
	require.NotNil(t, central.FacilityID)
	assert.Equal(t, FacilityID("17"), *central.FacilityID)

	north := reports[1]
	assert.Equal(t, StatusOK, north.StatusOf())
	assert.Equal(t, "nc-2", north.FacilityID.String())
	_, ok := north.LastUpdatedAt()
	assert.False(t, ok)
}

func TestReportRecord_MalformedFacilityIDIsAbsent(t *testing.T) {
	data := []byte(`[
		{"facility_name":"A","facility_id":true,"icu_beds_available":2},
		{"facility_name":"B","facility_id":{"id":3}},
		{"facility_name":"C","facility_id":null},
		{"facility_name":"D","facility_id":""},
		{"facility_name":"E","facility_id":4.0}
	]`)

	var reports []ReportRecord
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 5)

	for _, r := range reports[:4] {
		assert.Nil(t, r.FacilityID, r.FacilityName)
	}
	assert.Equal(t, 2.0, reports[0].ICUBeds.Float(), "other fields still decode")
	require.NotNil(t, reports[4].FacilityID)
	assert.Equal(t, FacilityID("4.0"), *reports[4].FacilityID)
}

func TestFacilityID_UnmarshalLenient(t *testing.T) {
	var id FacilityID
	require.NoError(t, json.Unmarshal([]byte(`false`), &id))
	assert.Empty(t, id)
	require.NoError(t, json.Unmarshal([]byte(`17`), &id))
	assert.Equal(t, FacilityID("17"), id)
}

func TestReportRecord_DecodeRejectsNonObject(t *testing.T) {
	var r ReportRecord
	assert.Error(t, json.Unmarshal([]byte(`"not a record"`), &r))
}

func TestReportRecord_StatusOf(t *testing.T) {
	tests := []struct {
		name   string
		status *string
		want   Status
	}{
		{name: "critical", status: strPtr("CRITICAL"), want: StatusCritical},
		{name: "ok", status: strPtr("OK"), want: StatusOK},
		{name: "absent", status: nil, want: StatusOK},
		{name: "lowercase critical is not critical", status: strPtr("critical"), want: StatusOK},
		{name: "unknown value", status: strPtr("DEGRADED"), want: StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReportRecord{Status: tt.status}.StatusOf())
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{input: "2025-03-02T09:14:00Z", want: time.Date(2025, 3, 2, 9, 14, 0, 0, time.UTC), ok: true},
		{input: "2025-03-02T09:14:00.123456Z", want: time.Date(2025, 3, 2, 9, 14, 0, 123456000, time.UTC), ok: true},
		{input: "2025-03-02T10:14:00+01:00", want: time.Date(2025, 3, 2, 9, 14, 0, 0, time.UTC), ok: true},
		{input: "2025-03-02T09:14:00", want: time.Date(2025, 3, 2, 9, 14, 0, 0, time.UTC), ok: true},
		{input: "2025-03-02 09:14:00", want: time.Date(2025, 3, 2, 9, 14, 0, 0, time.UTC), ok: true},
		{input: "2025-03-02", want: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "yesterday", ok: false},
		{input: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

// --- helpers shared by package tests ---

func strPtr(s string) *string { return &s }

func record(name string, beds, vents, staff float64, status string) ReportRecord {
	r := ReportRecord{
		FacilityName: name,
		ICUBeds:      CountOf(beds),
		Ventilators:  CountOf(vents),
		Staff:        CountOf(staff),
	}
	if status != "" {
		r.Status = strPtr(status)
	}
	return r
}

func withUpdated(r ReportRecord, ts string) ReportRecord {
	r.LastUpdated = strPtr(ts)
	return r
}

// scenarioReports is the three-facility collection used across tests:
// A is critical, B is OK, C has no status and no resources.
func scenarioReports() []ReportRecord {
	return []ReportRecord{
		record("A", 2, 1, 5, "CRITICAL"),
		record("B", 10, 0, 3, "OK"),
		record("C", 0, 0, 0, ""),
	}
}
