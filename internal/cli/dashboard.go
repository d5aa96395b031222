package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

type dashboardOutput struct {
	Filter  domain.StatusFilter   `json:"filter"`
	Metrics domain.Metrics        `json:"metrics"`
	Chart   domain.ChartData      `json:"chart"`
	Reports []domain.ReportRecord `json:"reports"`
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var status, file string
	var strict bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize facility reports",
		Long: `Fetch the monitor dashboard and print summary metrics, the top facilities
and the facility list narrowed by --status.

With --file the reports are read from a JSON array on disk instead of the API.
Unknown --status values show every facility unless --strict is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := loadReports(cmd.Context(), opts, file)
			if err != nil {
				return err
			}

			d := domain.BuildDashboard(reports)
			filter := domain.NormalizeStatusFilter(status)
			shown := d.Filtered(status)
			if strict {
				if shown, err = domain.FilterByStatusStrict(d.Reports, status); err != nil {
					return err
				}
			}

			out := dashboardOutput{Filter: filter, Metrics: d.Metrics, Chart: d.Chart, Reports: shown}
			return opts.printer().print(out, func(tw *tabwriter.Writer) {
				writeDashboardTable(tw, out)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.FilterAll), "Status filter (ALL|CRITICAL|OK)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject unknown status filters")
	cmd.Flags().StringVar(&file, "file", "", "Read reports from a JSON file instead of the API")
	return cmd
}

func loadReports(ctx context.Context, opts *rootOptions, file string) ([]domain.ReportRecord, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var reports []domain.ReportRecord
		if err := json.Unmarshal(data, &reports); err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		return reports, nil
	}

	c, err := opts.client(true)
	if err != nil {
		return nil, err
	}
	return c.FetchReports(ctx)
}

func writeDashboardTable(tw *tabwriter.Writer, out dashboardOutput) {
	m := out.Metrics
	fmt.Fprintf(tw, "FACILITIES\t%d\n", m.TotalFacilities)
	fmt.Fprintf(tw, "CRITICAL\t%d\n", m.CriticalCount)
	fmt.Fprintf(tw, "OK\t%d\n", m.OKCount)
	fmt.Fprintf(tw, "ICU BEDS\t%s\n", formatFloat(m.TotalBeds))
	fmt.Fprintf(tw, "VENTILATORS\t%s\n", formatFloat(m.TotalVents))
	fmt.Fprintf(tw, "STAFF\t%s\n", formatFloat(m.TotalStaff))
	if m.LastUpdated != nil {
		fmt.Fprintf(tw, "LAST UPDATED\t%s\n", m.LastUpdated.Format("2006-01-02 15:04 MST"))
	} else {
		fmt.Fprintln(tw, "LAST UPDATED\t-")
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RANK\tFACILITY\tBEDS\tVENTS\tSTAFF\tTOTAL")
	for i, ft := range out.Chart.TopFacilities {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, ft.Name,
			formatFloat(ft.Beds), formatFloat(ft.Vents), formatFloat(ft.Staff), formatFloat(ft.Total))
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "FACILITY\tCITY\tSTATUS\tBEDS\tVENTS\tSTAFF\tUPDATED\t(filter %s)\n", out.Filter)
	for _, r := range out.Reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.FacilityName, deref(r.City), r.StatusOf(),
			formatCount(r.ICUBeds), formatCount(r.Ventilators), formatCount(r.Staff), deref(r.LastUpdated))
	}
}
