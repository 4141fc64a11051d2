package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/cli/client"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit your own account",
	}

	var name, email string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}

			in := client.ProfileUpdate{Name: s.User.Name, Email: s.User.Email}
			if name != "" {
				in.Name = name
			}
			if email != "" {
				in.Email = email
			}

			user, err := a.Client.UpdateProfile(ctxOf(cmd), in)
			if err != nil {
				return err
			}
			if err := a.Auth.ReplaceUser(user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile updated: %s (%s)\n", user.Name, user.Email)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "New name")
	update.Flags().StringVar(&email, "email", "", "New email")

	cmd.AddCommand(update)
	return cmd
}

// NewPasswdCmd creates the passwd command
func NewPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}

			secrets := newSecretReader(cmd)
			current, err := secrets.read("Current password: ")
			if err != nil {
				return err
			}
			next, err := secrets.read("New password: ")
			if err != nil {
				return err
			}

			if err := a.Client.ChangePassword(ctxOf(cmd), client.PasswordChange{Current: current, New: next}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Password changed")
			return nil
		},
	}
}
