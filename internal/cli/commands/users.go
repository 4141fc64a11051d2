package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/cli/client"
	"github.com/inventario-app/inventario/internal/session"
)

// NewUsersCmd creates the users command group (administrators only)
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"usuarios"},
		Short:   "Manage user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List users",
		RunE:    runUsersList,
	})
	cmd.AddCommand(newUsersAddCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <user-id>",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := adminApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Client.DeleteUser(ctxOf(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed user %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func runUsersList(cmd *cobra.Command, args []string) error {
	a, _, err := adminApp(cmd)
	if err != nil {
		return err
	}

	users, err := a.Client.ListUsers(ctxOf(cmd))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "──\t────\t─────\t────")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return w.Flush()
}

func newUsersAddCmd() *cobra.Command {
	var (
		in   client.UserInput
		role string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = session.ParseRole(role)
			if !in.Role.Valid() {
				return fmt.Errorf("invalid role '%s', must be one of: admin, gerente, vendedor", role)
			}
			if in.Name == "" || in.Email == "" || in.Password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}

			a, _, err := adminApp(cmd)
			if err != nil {
				return err
			}

			user, err := a.Client.CreateUser(ctxOf(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(session.RoleSeller), "Role: admin, gerente or vendedor")

	return cmd
}
