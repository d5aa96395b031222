package domain

import (
	"errors"
	"fmt"
)

// Status is the externally computed resource adequacy of a facility.
type Status string

const (
	StatusCritical Status = "CRITICAL"
	StatusOK       Status = "OK"
)

// StatusFilter selects which records a dashboard view shows.
type StatusFilter string

const (
	FilterAll      StatusFilter = "ALL"
	FilterCritical StatusFilter = "CRITICAL"
	FilterOK       StatusFilter = "OK"
)

// ErrUnknownStatusFilter is matched by every UnknownStatusFilterError.
var ErrUnknownStatusFilter = errors.New("unknown status filter")

// UnknownStatusFilterError reports a selector outside {ALL, CRITICAL, OK}.
type UnknownStatusFilterError struct {
	Selector string
}

func (e *UnknownStatusFilterError) Error() string {
	return fmt.Sprintf("unknown status filter %q (want ALL, CRITICAL or OK)", e.Selector)
}

func (e *UnknownStatusFilterError) Is(target error) bool {
	return target == ErrUnknownStatusFilter
}

// ParseStatusFilter is the strict selector parser. Matching is exact and
// case-sensitive, like the status field itself.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case FilterAll, FilterCritical, FilterOK:
		return f, nil
	default:
		return "", &UnknownStatusFilterError{Selector: s}
	}
}

// NormalizeStatusFilter is the permissive parser: unknown selectors fall back
// to FilterAll.
func NormalizeStatusFilter(s string) StatusFilter {
	f, err := ParseStatusFilter(s)
	if err != nil {
		return FilterAll
	}
	return f
}
