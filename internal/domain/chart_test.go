package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Scenario(t *testing.T) {
	reports := scenarioReports()
	got := Shape(reports, Aggregate(reports))

	want := ChartData{
		StatusSplit: []StatusSlice{
			{Category: StatusCritical, Count: 1},
			{Category: StatusOK, Count: 2},
		},
		TopFacilities: []FacilityTotal{
			{Name: "B", Beds: 10, Vents: 0, Staff: 3, Total: 13},
			{Name: "A", Beds: 2, Vents: 1, Staff: 5, Total: 8},
			{Name: "C", Total: 0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Shape() mismatch (-want +got):\n%s", diff)
	}
}

func TestShape_EmptyKeepsBothCategories(t *testing.T) {
	got := Shape(nil, Aggregate(nil))

	assert.Equal(t, []StatusSlice{
		{Category: StatusCritical, Count: 0},
		{Category: StatusOK, Count: 0},
	}, got.StatusSplit)
	assert.NotNil(t, got.TopFacilities)
	assert.Empty(t, got.TopFacilities)
}

func TestShape_TopFacilitiesLimitedAndSorted(t *testing.T) {
	var reports []ReportRecord
	for i := range 12 {
		reports = append(reports, record(fmt.Sprintf("F%02d", i), float64(i), 0, 0, "OK"))
	}

	got := Shape(reports, Aggregate(reports)).TopFacilities

	require.Len(t, got, TopFacilitiesLimit)
	assert.Equal(t, "F11", got[0].Name)
	assert.Equal(t, "F04", got[TopFacilitiesLimit-1].Name)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Total, got[i].Total)
	}
}

func TestShape_TiesKeepInputOrder(t *testing.T) {
	reports := []ReportRecord{
		record("first", 1, 1, 1, "OK"),
		record("big", 5, 5, 5, "OK"),
		record("second", 3, 0, 0, "OK"),
		record("third", 0, 0, 3, "CRITICAL"),
	}

	got := Shape(reports, Aggregate(reports)).TopFacilities

	names := make([]string, len(got))
	for i, ft := range got {
		names[i] = ft.Name
	}
	assert.Equal(t, []string{"big", "first", "second", "third"}, names)
}

func TestShape_DoesNotMutateInput(t *testing.T) {
	reports := scenarioReports()
	before := append([]ReportRecord(nil), reports...)

	Shape(reports, Aggregate(reports))

	assert.Equal(t, before, reports)
}
