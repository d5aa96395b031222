package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Scenario(t *testing.T) {
	m := Aggregate(scenarioReports())

	assert.Equal(t, 3, m.TotalFacilities)
	assert.Equal(t, 1, m.CriticalCount)
	assert.Equal(t, 2, m.OKCount)
	assert.Equal(t, 12.0, m.TotalBeds)
	assert.Equal(t, 1.0, m.TotalVents)
	assert.Equal(t, 8.0, m.TotalStaff)
	assert.Equal(t, Maxima{Beds: 10, Vents: 1, Staff: 5}, m.Maxima)
	assert.Nil(t, m.LastUpdated)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)

	assert.Equal(t, Metrics{Maxima: Maxima{Beds: 1, Vents: 1, Staff: 1}}, m)
}

func TestAggregate_MalformedValuesCoerceToZero(t *testing.T) {
	reports := []ReportRecord{
		{FacilityName: "X", ICUBeds: Count{}, Ventilators: CountOf(3), Staff: Count{}},
	}

	m := Aggregate(reports)

	assert.Equal(t, 0.0, m.TotalBeds)
	assert.Equal(t, 3.0, m.TotalVents)
	assert.Equal(t, 0.0, m.TotalStaff)
	assert.Equal(t, Maxima{Beds: 1, Vents: 3, Staff: 1}, m.Maxima)
}

func TestAggregate_NegativeValuesAreSummed(t *testing.T) {
	m := Aggregate([]ReportRecord{record("X", -4, 2, 0, "OK")})

	assert.Equal(t, -4.0, m.TotalBeds)
	assert.Equal(t, 1.0, m.Maxima.Beds)
}

func TestAggregate_LatestTimestamp(t *testing.T) {
	reports := []ReportRecord{
		withUpdated(record("A", 1, 1, 1, "OK"), "2025-03-01T08:00:00Z"),
		withUpdated(record("B", 1, 1, 1, "OK"), "not a time"),
		withUpdated(record("C", 1, 1, 1, "OK"), "2025-03-02T09:14:00Z"),
		record("D", 1, 1, 1, "OK"),
		withUpdated(record("E", 1, 1, 1, "OK"), "2025-02-28"),
	}

	m := Aggregate(reports)

	require.NotNil(t, m.LastUpdated)
	assert.True(t, m.LastUpdated.Equal(time.Date(2025, 3, 2, 9, 14, 0, 0, time.UTC)))
}

func TestAggregate_PartitionHolds(t *testing.T) {
	collections := [][]ReportRecord{
		nil,
		scenarioReports(),
		{record("X", 0, 0, 0, "critical"), record("Y", 0, 0, 0, "DEGRADED")},
		{record("X", 0, 0, 0, "CRITICAL"), record("Y", 0, 0, 0, "CRITICAL")},
	}
	for _, reports := range collections {
		m := Aggregate(reports)
		assert.Equal(t, len(reports), m.CriticalCount+m.OKCount)
		assert.Len(t, FilterByStatus(reports, "CRITICAL"), m.CriticalCount)
		assert.Len(t, FilterByStatus(reports, "OK"), m.OKCount)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	reports := append(scenarioReports(), withUpdated(record("D", 1, 2, 3, "OK"), "2025-03-02T09:14:00Z"))
	before := append([]ReportRecord(nil), reports...)

	assert.Equal(t, Aggregate(reports), Aggregate(reports))
	assert.Equal(t, before, reports)
}
