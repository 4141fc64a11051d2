package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/cli/client"
)

// NewSalesCmd creates the sales command group
func NewSalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sales",
		Aliases: []string{"vendas"},
		Short:   "List and register sales",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sales",
		RunE:    runSalesList,
	})
	cmd.AddCommand(newSalesAddCmd())

	return cmd
}

func runSalesList(cmd *cobra.Command, args []string) error {
	a, _, err := authenticatedApp(cmd)
	if err != nil {
		return err
	}

	sales, err := a.Client.ListSales(ctxOf(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sales) == 0 {
		fmt.Fprintln(out, "No sales found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tITEMS\tTOTAL")
	fmt.Fprintln(w, "──\t────\t─────\t─────")
	for _, s := range sales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), len(s.Items), s.Total)
	}
	return w.Flush()
}

func newSalesAddCmd() *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a sale",
		Example: `  inventario sales add --item 01J9Z...:2 --item 01J9Y...:1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseSaleLines(items)
			if err != nil {
				return err
			}

			a, _, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}

			sale, err := a.Client.CreateSale(ctxOf(cmd), client.NewSale{Items: lines})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Sale %s registered, total %.2f\n", sale.ID, sale.Total)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Product and quantity as <product-id>:<quantity> (repeatable)")

	return cmd
}

// parseSaleLines turns "<id>:<qty>" flags into sale lines; a missing quantity means 1
func parseSaleLines(items []string) ([]client.SaleLine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one --item is required")
	}

	lines := make([]client.SaleLine, 0, len(items))
	for _, item := range items {
		id, qty, found := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid item '%s': missing product id", item)
		}

		quantity := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid item '%s': quantity must be a positive integer", item)
			}
			quantity = n
		}
		lines = append(lines, client.SaleLine{ProductID: id, Quantity: quantity})
	}
	return lines, nil
}
