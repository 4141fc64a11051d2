package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd assembles the inventario command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inventario",
		Short: "Inventario - inventory and sales from the terminal",
		Long: `Inventario CLI - browse the product catalog, register sales and
manage users of an Inventario backend.

Sign in once with 'inventario login'; the session is kept in the OS keychain
and verified against the backend at the start of every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.APIURLFlag, "", "Backend address (overrides INVENTARIO_API_URL and saved config)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inventario version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewProductsCmd())
	rootCmd.AddCommand(commands.NewUsersCmd())
	rootCmd.AddCommand(commands.NewSalesCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewPasswdCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
