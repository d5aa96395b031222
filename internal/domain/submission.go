package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCount is returned when a submitted count is not a number.
	ErrInvalidCount = errors.New("must be a valid number")
	// ErrNegativeCount is returned when a submitted count is below zero.
	ErrNegativeCount = errors.New("must be a non-negative number")
	// ErrInvalidUser wraps every NewUser validation failure.
	ErrInvalidUser = errors.New("invalid user")
)

const minPasswordLength = 6

// ResourceSubmission is the payload a reporter sends for their facility.
type ResourceSubmission struct {
	ICUBeds     int `json:"icu_beds_available"`
	Ventilators int `json:"ventilators_available"`
	Staff       int `json:"staff_on_duty"`
}

// ParseResourceSubmission validates raw form input. Negative values are
// reported before non-numeric ones.
func ParseResourceSubmission(beds, vents, staff string) (ResourceSubmission, error) {
	names := [3]string{"icu_beds_available", "ventilators_available", "staff_on_duty"}
	raws := [3]string{beds, vents, staff}

	var values [3]int
	var errs [3]error
	for i, raw := range raws {
		values[i], errs[i] = strconv.Atoi(strings.TrimSpace(raw))
	}
	for i := range values {
		if errs[i] == nil && values[i] < 0 {
			return ResourceSubmission{}, fmt.Errorf("%s: %w", names[i], ErrNegativeCount)
		}
	}
	for i := range errs {
		if errs[i] != nil {
			return ResourceSubmission{}, fmt.Errorf("%s: %w", names[i], ErrInvalidCount)
		}
	}
	return ResourceSubmission{ICUBeds: values[0], Ventilators: values[1], Staff: values[2]}, nil
}

// NewUser is an admin request to create an account.
type NewUser struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	FacilityID *int   `json:"facility_id"`
}

// Validate applies the account rules: reporters must be assigned to a
// facility, monitors and admins must not be.
func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if len(u.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, minPasswordLength)
	}
	switch u.Role {
	case RoleReporter:
		if u.FacilityID == nil {
			return fmt.Errorf("%w: reporters must be assigned to a facility", ErrInvalidUser)
		}
	case RoleMonitor, RoleAdmin:
		if u.FacilityID != nil {
			return fmt.Errorf("%w: role %s must not be assigned to a facility", ErrInvalidUser, u.Role)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	return nil
}
