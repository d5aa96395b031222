package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reporter operations",
	}
	cmd.AddCommand(newReportSubmitCmd(opts))
	return cmd
}

func newReportSubmitCmd(opts *rootOptions) *cobra.Command {
	var beds, vents, staff string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit resource counts for your facility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := domain.ParseResourceSubmission(beds, vents, staff)
			if err != nil {
				return err
			}
			c, err := opts.client(true)
			if err != nil {
				return err
			}
			out, err := c.SubmitReport(cmd.Context(), sub)
			if err != nil {
				return err
			}
			return opts.printer().print(out, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ICU BEDS\tVENTILATORS\tSTAFF\tLAST UPDATED")
				fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", out.ICUBeds, out.Ventilators, out.Staff, out.LastUpdated)
			})
		},
	}
	cmd.Flags().StringVar(&beds, "beds", "", "ICU beds available")
	cmd.Flags().StringVar(&vents, "vents", "", "Ventilators available")
	cmd.Flags().StringVar(&staff, "staff", "", "Staff on duty")
	requireFlags(cmd.Flags(), "beds", "vents", "staff")
	return cmd
}

func requireFlags(fs *pflag.FlagSet, names ...string) {
	for _, n := range names {
		_ = cobra.MarkFlagRequired(fs, n)
	}
}
