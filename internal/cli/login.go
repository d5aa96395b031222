package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

type loginResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh,omitempty"`
	Role    domain.Role `json:"role"`
	Landing string      `json:"landing"`
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for an access token",
		Long: `Log in and print the access token together with the account's role.

The password may also be supplied through HFRAT_PASSWORD.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("HFRAT_PASSWORD")
			}
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			c, err := opts.client(false)
			if err != nil {
				return err
			}
			tok, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			role, err := c.ResolveRole(cmd.Context(), tok.Access)
			if err != nil {
				return err
			}

			res := loginResult{Access: tok.Access, Refresh: tok.Refresh, Role: role, Landing: role.LandingRoute()}
			return opts.printer().print(res, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "ROLE\t%s\n", res.Role)
				fmt.Fprintf(tw, "LANDING\t%s\n", res.Landing)
				fmt.Fprintf(tw, "ACCESS\t%s\n", res.Access)
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}
