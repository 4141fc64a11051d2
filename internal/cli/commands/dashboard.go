package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/dashboard"
)

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show sales figures for recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			return runDashboard(cmd, days, time.Now())
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to include")

	return cmd
}

func runDashboard(cmd *cobra.Command, days int, now time.Time) error {
	a, _, err := authenticatedApp(cmd)
	if err != nil {
		return err
	}

	sales, err := a.Client.ListSales(ctxOf(cmd))
	if err != nil {
		return err
	}

	from, to := dashboard.LastDays(now, days)
	sum := dashboard.Summarize(sales, from, to)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sales from %s to %s\n\n", from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
	fmt.Fprintf(out, "  Revenue:        %.2f\n", sum.Revenue)
	fmt.Fprintf(out, "  Sales:          %d\n", sum.Count)
	fmt.Fprintf(out, "  Average ticket: %.2f\n", sum.AverageTicket)

	if len(sum.TopProducts) > 0 {
		fmt.Fprintln(out, "\nTop products:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tQTY\tREVENUE")
		for _, p := range sum.TopProducts {
			fmt.Fprintf(w, "  %s\t%d\t%.2f\n", p.Name, p.Quantity, p.Revenue)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(sum.ByDay) > 0 {
		fmt.Fprintln(out, "\nBy day:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, d := range sum.ByDay {
			fmt.Fprintf(w, "  %s\t%d\t%.2f\n", d.Day.Format("2006-01-02"), d.Count, d.Revenue)
		}
		return w.Flush()
	}
	return nil
}
