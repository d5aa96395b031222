// Package cli implements hfratctl, a command-line client for the HFRAT
// reporting API. It shares the reporting API client and dashboard
// derivation with the dashboard service.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/api"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
)

// Version is stamped at build time.
var Version = "dev"

const (
	envAPIURL = "HFRAT_API_URL"
	envToken  = "HFRAT_TOKEN"
)

type rootOptions struct {
	apiURL   string
	token    string
	output   string
	timeout  time.Duration
	logLevel string

	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd builds the hfratctl command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "hfratctl",
		Short: "Command-line client for the HFRAT reporting API",
		Long: `hfratctl talks to the Health Facility Resource Availability Tracker API.

Monitors can summarize the dashboard, reporters can submit their facility's
resource counts, and admins can manage users and facilities.

Authentication:
  Run 'hfratctl login' to obtain an access token, then pass it with --token
  or export it as HFRAT_TOKEN.

Examples:
  hfratctl login --username nurse1 --password secret
  hfratctl dashboard --status CRITICAL
  hfratctl dashboard --file data/mock/facility_reports.json -o yaml
  hfratctl report submit --beds 4 --vents 2 --staff 12
  hfratctl users list -o table`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateFormat(opts.output)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.apiURL, "api-url", sharedcfg.EnvOrDefault(envAPIURL, "http://localhost:8000/api/"), "Reporting API base URL (env "+envAPIURL+")")
	pf.StringVar(&opts.token, "token", "", "Access token (env "+envToken+")")
	pf.StringVarP(&opts.output, "output", "o", formatTable, "Output format (table|json|yaml)")
	pf.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	root.AddCommand(
		newLoginCmd(opts),
		newReportCmd(opts),
		newDashboardCmd(opts),
		newUsersCmd(opts),
		newFacilitiesCmd(opts),
	)
	return root
}

// Execute runs hfratctl against the process's arguments.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// client builds a reporting API client. Commands that need a credential set
// requireToken.
func (o *rootOptions) client(requireToken bool) (*api.Client, error) {
	token := o.token
	if token == "" {
		token = os.Getenv(envToken)
	}
	if requireToken && token == "" {
		return nil, fmt.Errorf("no access token: pass --token or set %s", envToken)
	}

	base := o.apiURL
	if base != "" && base[len(base)-1] != '/' {
		base += "/"
	}

	logger := observability.NewLoggerTo(o.stderr, o.logLevel, "text")
	return api.NewClient(api.Options{
		BaseURL: base,
		Token:   token,
		Timeout: o.timeout,
	}, logger, observability.NewUnregisteredMetrics()), nil
}

func (o *rootOptions) printer() printer {
	return printer{w: o.stdout, format: o.output}
}
