// Package domain models HFRAT facility resource reports and the dashboard
// values derived from them.
//
// # Data Source
//
// Reports come from the reporting API's monitor dashboard endpoint as a JSON
// array, one object per facility:
//
//	{"facility_name":"Central Hospital","icu_beds_available":4,
//	 "ventilators_available":2,"staff_on_duty":31,
//	 "last_updated":"2025-03-02T09:14:00Z","status":"OK"}
//
// The API classifies status itself (a facility with zero ICU beds is
// CRITICAL). This package never recomputes it.
//
// # Lenient Decoding
//
// Partial facility data is a steady-state condition, not an error. Metric
// fields decode into [Count], which records whether the value was a finite
// number. Missing, null, boolean, or non-numeric values ("abc") are invalid
// and coerce to 0 in every sum and maximum. Decoding a record only fails when
// the payload is not a JSON object.
//
// Timestamps stay as strings on the record and are parsed on demand. RFC 3339
// (optionally with fractional seconds) is the wire format; zone-less
// "2006-01-02T15:04:05", "2006-01-02 15:04:05" and "2006-01-02" are accepted
// as UTC. Anything else is skipped, never treated as the oldest value.
//
// # Status Partition
//
// Status is two-way. Only the exact string "CRITICAL" is critical; every other
// value, including an absent status, is OK. [Aggregate] and [FilterByStatus]
// share this rule through [ReportRecord.StatusOf], so
//
//	len(FilterByStatus(r, "CRITICAL")) == Aggregate(r).CriticalCount
//
// holds for every collection.
//
// # Derived Values
//
//	Aggregate      counts, sums, latest timestamp, maxima floored at 1
//	Shape          CRITICAL/OK split plus the top 8 facilities by beds+vents+staff
//	FilterByStatus subsequence for ALL, CRITICAL or OK; unknown selectors mean ALL
//
// All three are pure: they never mutate their input and return new slices.
// [Reduce] and [Derive] model the interactive dashboard as an explicit state
// value so that these results are recomputed rather than cached.
package domain
