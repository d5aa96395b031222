package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/api"
)

func newFacilitiesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "facilities",
		Aliases: []string{"facility"},
		Short:   "Manage health facilities (admin)",
	}
	cmd.AddCommand(newFacilitiesCreateCmd(opts), newFacilitiesListCmd(opts))
	return cmd
}

func newFacilitiesCreateCmd(opts *rootOptions) *cobra.Command {
	var f api.Facility
	var location string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a facility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if location != "" {
				f.LocationDetail = &location
			}
			c, err := opts.client(true)
			if err != nil {
				return err
			}
			out, err := c.CreateFacility(cmd.Context(), f)
			if err != nil {
				return err
			}
			return opts.printer().print(out, func(tw *tabwriter.Writer) {
				writeFacilitiesTable(tw, []api.Facility{out})
			})
		},
	}
	cmd.Flags().StringVar(&f.FacilityName, "name", "", "Facility name")
	cmd.Flags().StringVar(&f.Country, "country", "", "Country")
	cmd.Flags().StringVar(&f.CityOrState, "city", "", "City or state")
	cmd.Flags().StringVar(&location, "location", "", "Free-form location detail")
	requireFlags(cmd.Flags(), "name")
	return cmd
}

func newFacilitiesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List facilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client(true)
			if err != nil {
				return err
			}
			facilities, err := c.ListFacilities(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer().print(facilities, func(tw *tabwriter.Writer) {
				writeFacilitiesTable(tw, facilities)
			})
		},
	}
}

func writeFacilitiesTable(tw *tabwriter.Writer, facilities []api.Facility) {
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tCOUNTRY\tLOCATION")
	for _, f := range facilities {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.FacilityName, f.CityOrState, f.Country, deref(f.LocationDetail))
	}
}
