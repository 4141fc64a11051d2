package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", s.User.Name, s.User.Email)
			fmt.Fprintf(out, "  Role:   %s\n", s.User.Role)
			fmt.Fprintf(out, "  Server: %s\n", a.APIURL)
			return nil
		},
	}
}
