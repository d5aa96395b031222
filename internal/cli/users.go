package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/api"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
	}
	cmd.AddCommand(newUsersCreateCmd(opts), newUsersListCmd(opts))
	return cmd
}

func newUsersCreateCmd(opts *rootOptions) *cobra.Command {
	var u domain.NewUser
	var role string
	var facility int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create a REPORTER, MONITOR or ADMIN account.

Reporters must be assigned to a facility with --facility; other roles must not be.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u.Role = domain.Role(strings.ToUpper(role))
			if cmd.Flags().Changed("facility") {
				u.FacilityID = &facility
			}
			c, err := opts.client(true)
			if err != nil {
				return err
			}
			out, err := c.CreateUser(cmd.Context(), u)
			if err != nil {
				return err
			}
			return opts.printer().print(out, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tFACILITY")
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", out.ID, out.Username, out.Role, optionalInt(out.Facility))
			})
		},
	}
	cmd.Flags().StringVar(&u.Username, "username", "", "Account username")
	cmd.Flags().StringVar(&u.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleReporter), "Role (REPORTER|MONITOR|ADMIN)")
	cmd.Flags().IntVar(&facility, "facility", 0, "Facility ID for reporters")
	return cmd
}

func newUsersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client(true)
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer().print(users, func(tw *tabwriter.Writer) {
				writeUsersTable(tw, users)
			})
		},
	}
}

func writeUsersTable(tw *tabwriter.Writer, users []api.User) {
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tFACILITY")
	for _, u := range users {
		facility := "-"
		if u.Facility != nil {
			facility = u.Facility.FacilityName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, facility)
	}
}

func optionalInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
