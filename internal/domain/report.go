package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ReportRecord is one facility's resource snapshot as returned by the
// reporting API. Metric fields decode leniently; see Count.
type ReportRecord struct {
	FacilityName string      `json:"facility_name"`
	City         *string     `json:"city,omitempty"`
	Country      *string     `json:"country,omitempty"`
	ICUBeds      Count       `json:"icu_beds_available"`
	Ventilators  Count       `json:"ventilators_available"`
	Staff        Count       `json:"staff_on_duty"`
	Status       *string     `json:"status,omitempty"`
	LastUpdated  *string     `json:"last_updated,omitempty"`
	FacilityID   *FacilityID `json:"facility_id,omitempty"`
}

// StatusOf returns the record's status under the two-way partition: only the
// exact string "CRITICAL" is critical, everything else (including absent) is OK.
func (r ReportRecord) StatusOf() Status {
	if r.Status != nil && *r.Status == string(StatusCritical) {
		return StatusCritical
	}
	return StatusOK
}

// LastUpdatedAt parses LastUpdated. The second return is false when the
// field is absent or does not match any accepted layout.
func (r ReportRecord) LastUpdatedAt() (time.Time, bool) {
	if r.LastUpdated == nil {
		return time.Time{}, false
	}
	return parseTimestamp(*r.LastUpdated)
}

// Count is a metric value that may be absent or malformed on the wire.
// Only finite numbers (JSON numbers or numeric strings) are valid.
type Count struct {
	Value float64
	Valid bool
}

// CountOf returns a valid Count. Non-finite inputs yield an invalid Count.
func CountOf(v float64) Count {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Count{}
	}
	return Count{Value: v, Valid: true}
}

// Float returns the coerced value: 0 for anything invalid or missing.
func (c Count) Float() float64 {
	if !c.Valid {
		return 0
	}
	return c.Value
}

// UnmarshalJSON never fails on a well-formed JSON value. Anything that is not
// a number or numeric string decodes to an invalid Count.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		raw = string(data)
	default:
		return nil
	}

	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*c = CountOf(v)
	return nil
}

// MarshalJSON writes valid counts as numbers and invalid ones as null.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, c.Value, 'f', -1, 64), nil
}

// FacilityID identifies a facility for trend lookups. The API may send it as
// a number or a string; any other JSON value decodes as an empty ID.
type FacilityID string

func (id *FacilityID) UnmarshalJSON(data []byte) error {
	*id = ""
	if p := parseFacilityID(data); p != nil {
		*id = *p
	}
	return nil
}

// parseFacilityID returns nil for null, empty strings, and values that are
// neither strings nor numbers.
func parseFacilityID(data []byte) *FacilityID {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil || n == "" {
			return nil
		}
		raw = n.String()
	}
	if raw == "" {
		return nil
	}
	id := FacilityID(raw)
	return &id
}

// UnmarshalJSON decodes a record leniently. Only a payload that is not a JSON
// object is an error; a malformed facility_id leaves FacilityID nil.
func (r *ReportRecord) UnmarshalJSON(data []byte) error {
	type plain ReportRecord
	var aux struct {
		plain
		FacilityID json.RawMessage `json:"facility_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ReportRecord(aux.plain)
	r.FacilityID = parseFacilityID(aux.FacilityID)
	return nil
}

func (id FacilityID) String() string { return string(id) }

// timestampLayouts are tried in order by parseTimestamp. Layouts without a
// zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
