package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(reports []ReportRecord) []string {
	out := make([]string, len(reports))
	for i := range reports {
		out[i] = reports[i].FacilityName
	}
	return out
}

func TestFilterByStatus(t *testing.T) {
	tests := []struct {
		selector string
		want     []string
	}{
		{selector: "ALL", want: []string{"A", "B", "C"}},
		{selector: "CRITICAL", want: []string{"A"}},
		{selector: "OK", want: []string{"B", "C"}},
		{selector: "BOGUS", want: []string{"A", "B", "C"}},
		{selector: "", want: []string{"A", "B", "C"}},
		{selector: "critical", want: []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterByStatus(scenarioReports(), tt.selector)))
		})
	}
}

func TestFilterByStatus_PartitionIsComplete(t *testing.T) {
	reports := append(scenarioReports(), record("D", 0, 0, 0, "UNKNOWN"))

	critical := FilterByStatus(reports, "CRITICAL")
	ok := FilterByStatus(reports, "OK")

	assert.Len(t, reports, len(critical)+len(ok))
}

func TestFilterByStatus_DoesNotAliasInput(t *testing.T) {
	reports := scenarioReports()

	got := FilterByStatus(reports, "ALL")
	got[0].FacilityName = "changed"

	assert.Equal(t, "A", reports[0].FacilityName)
}

func TestFilterByStatus_EmptyInput(t *testing.T) {
	got := FilterByStatus(nil, "CRITICAL")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterByStatusStrict(t *testing.T) {
	got, err := FilterByStatusStrict(scenarioReports(), "OK")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, names(got))

	_, err = FilterByStatusStrict(scenarioReports(), "BOGUS")
	require.ErrorIs(t, err, ErrUnknownStatusFilter)

	var sfe *UnknownStatusFilterError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, "BOGUS", sfe.Selector)
}

func TestNormalizeStatusFilter(t *testing.T) {
	assert.Equal(t, FilterCritical, NormalizeStatusFilter("CRITICAL"))
	assert.Equal(t, FilterOK, NormalizeStatusFilter("OK"))
	assert.Equal(t, FilterAll, NormalizeStatusFilter("ALL"))
	assert.Equal(t, FilterAll, NormalizeStatusFilter("ok"))
}
