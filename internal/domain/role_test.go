package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRole(t *testing.T) {
	tests := []struct {
		hint    string
		want    Role
		landing string
	}{
		{hint: "", want: RoleMonitor, landing: RouteDashboard},
		{hint: "MONITOR", want: RoleMonitor, landing: RouteDashboard},
		{hint: "ADMIN", want: RoleAdmin, landing: RouteAdmin},
		{hint: "REPORTER", want: RoleReporter, landing: RouteReporter},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			r, err := ResolveRole(tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
			assert.Equal(t, tt.landing, r.LandingRoute())
			assert.True(t, r.CanView(tt.landing))
		})
	}
}

func TestResolveRole_Unknown(t *testing.T) {
	_, err := ResolveRole("SUPERUSER")
	require.ErrorIs(t, err, ErrUnauthorizedRole)
	assert.Contains(t, err.Error(), "SUPERUSER")
}

func TestRole_CanView(t *testing.T) {
	assert.True(t, RoleAdmin.CanView(RouteDashboard))
	assert.True(t, RoleMonitor.CanView(RouteDashboard))
	assert.False(t, RoleReporter.CanView(RouteDashboard))
	assert.False(t, RoleMonitor.CanView(RouteReporter))
	assert.False(t, RoleAdmin.CanView(RouteReporter))
	assert.False(t, RoleMonitor.CanView(RouteAdmin))
	assert.False(t, RoleAdmin.CanView("/elsewhere"))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("MONITOR")
	require.NoError(t, err)
	assert.Equal(t, RoleMonitor, r)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrMissingRole)
	assert.ErrorIs(t, err, ErrUnauthorizedRole)

	_, err = ParseRole("GUEST")
	assert.ErrorIs(t, err, ErrUnauthorizedRole)
	assert.NotErrorIs(t, err, ErrMissingRole)
}

func TestRole_CanReadMonitorData(t *testing.T) {
	assert.True(t, RoleMonitor.CanReadMonitorData())
	assert.False(t, RoleAdmin.CanReadMonitorData())
	assert.False(t, RoleReporter.CanReadMonitorData())
	assert.False(t, Role("").CanReadMonitorData())
}
