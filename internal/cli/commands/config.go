package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/app"
	"github.com/inventario-app/inventario/internal/cli/userconfig"
	"github.com/inventario-app/inventario/internal/config"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change local settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-url <url>",
		Short: "Save the backend address (use \"\" to reset to the default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "" {
				u, err := url.Parse(args[0])
				if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
					return fmt.Errorf("invalid URL '%s', expected http(s)://host[:port]", args[0])
				}
			}
			if err := userconfig.SetAPIURL(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flag, _ := cmd.Flags().GetString(APIURLFlag)
			apiURL, err := app.ResolveAPIURL(flag, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_url:     %s\n", apiURL)
			fmt.Fprintf(out, "token_store: %s\n", cfg.Token.Store)
			fmt.Fprintf(out, "timeout:     %s\n", cfg.API.RequestTimeout)
			return nil
		},
	})

	return cmd
}
