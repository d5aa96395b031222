package domain

// FilterByStatus narrows reports to the requested status. Unknown selectors
// are treated as ALL. The result never aliases the input's backing array.
func FilterByStatus(reports []ReportRecord, selector string) []ReportRecord {
	return filterByStatus(reports, NormalizeStatusFilter(selector))
}

// FilterByStatusStrict behaves like FilterByStatus but rejects unknown
// selectors with an error matching ErrUnknownStatusFilter.
func FilterByStatusStrict(reports []ReportRecord, selector string) ([]ReportRecord, error) {
	f, err := ParseStatusFilter(selector)
	if err != nil {
		return nil, err
	}
	return filterByStatus(reports, f), nil
}

func filterByStatus(reports []ReportRecord, f StatusFilter) []ReportRecord {
	out := make([]ReportRecord, 0, len(reports))
	if f == FilterAll {
		return append(out, reports...)
	}
	for i := range reports {
		if string(reports[i].StatusOf()) == string(f) {
			out = append(out, reports[i])
		}
	}
	return out
}
