package domain

import (
	"errors"
	"fmt"
)

// Role is an HFRAT account role as reported by the API's health endpoint.
type Role string

const (
	RoleReporter Role = "REPORTER"
	RoleMonitor  Role = "MONITOR"
	RoleAdmin    Role = "ADMIN"
)

// Client routes gated by role.
const (
	RouteAdmin     = "/admin"
	RouteReporter  = "/reporter"
	RouteDashboard = "/dashboard"
)

// ErrUnauthorizedRole is returned for role hints outside the known set.
var ErrUnauthorizedRole = errors.New("unauthorized role for this application")

// ErrMissingRole is returned by ParseRole for an account without a role. It
// matches ErrUnauthorizedRole.
var ErrMissingRole = fmt.Errorf("%w: account has no role", ErrUnauthorizedRole)

// ResolveRole maps the API's role hint to a Role. An empty hint means the
// API did not classify the account, which the client treats as a monitor.
func ResolveRole(hint string) (Role, error) {
	switch r := Role(hint); r {
	case "":
		return RoleMonitor, nil
	case RoleReporter, RoleMonitor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnauthorizedRole, hint)
	}
}

// ParseRole is ResolveRole for access decisions: a missing hint is an error
// instead of defaulting to MONITOR.
func ParseRole(hint string) (Role, error) {
	if hint == "" {
		return "", ErrMissingRole
	}
	return ResolveRole(hint)
}

// LandingRoute is where a freshly logged-in user of this role is sent.
func (r Role) LandingRoute() string {
	switch r {
	case RoleAdmin:
		return RouteAdmin
	case RoleReporter:
		return RouteReporter
	default:
		return RouteDashboard
	}
}

// CanView reports whether the role may open the given route.
func (r Role) CanView(route string) bool {
	switch route {
	case RouteDashboard:
		return r == RoleMonitor || r == RoleAdmin
	case RouteReporter:
		return r == RoleReporter
	case RouteAdmin:
		return r == RoleAdmin
	default:
		return false
	}
}

// CanReadMonitorData reports whether the role may read facility reports and
// trends. The reporting API serves these to monitors only.
func (r Role) CanReadMonitorData() bool {
	return r == RoleMonitor
}
