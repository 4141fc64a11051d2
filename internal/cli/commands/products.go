package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/catalog"
	"github.com/inventario-app/inventario/internal/cli/client"
)

// NewProductsCmd creates the products command group
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"produtos"},
		Short:   "Browse and manage the product catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsAddCmd())
	cmd.AddCommand(newProductsRemoveCmd())

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var (
		filter    catalog.Filter
		sortField string
		desc      bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := catalog.ParseField(sortField)
			if err != nil {
				return err
			}
			return runProductsList(cmd, filter, catalog.Sort{Field: field, Desc: desc})
		},
	}

	cmd.Flags().StringVar(&filter.Query, "search", "", "Match name, description or category")
	cmd.Flags().StringVar(&filter.Category, "category", "", "Only this category")
	cmd.Flags().BoolVar(&filter.LowStockOnly, "low-stock", false, "Only products at or below the low-stock threshold")
	cmd.Flags().IntVar(&filter.LowStockThreshold, "threshold", catalog.DefaultLowStock, "Low-stock threshold")
	cmd.Flags().StringVar(&sortField, "sort", "name", "Sort by name, price, stock or category")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")

	return cmd
}

func runProductsList(cmd *cobra.Command, filter catalog.Filter, order catalog.Sort) error {
	a, _, err := authenticatedApp(cmd)
	if err != nil {
		return err
	}

	products, err := a.Client.ListProducts(ctxOf(cmd))
	if err != nil {
		return err
	}

	products = catalog.Apply(products, filter, order)

	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	fmt.Fprintln(w, "──\t────\t────────\t─────\t─────")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock)
	}
	return w.Flush()
}

func newProductsAddCmd() *cobra.Command {
	var in client.ProductInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Name == "" {
				return fmt.Errorf("--name is required")
			}
			if in.Price < 0 || in.Stock < 0 {
				return fmt.Errorf("price and stock must not be negative")
			}

			a, _, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}

			product, err := a.Client.CreateProduct(ctxOf(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created product %s (%s)\n", product.Name, product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Product description")
	cmd.Flags().StringVar(&in.Category, "category", "", "Product category")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "Unit price")
	cmd.Flags().IntVar(&in.Stock, "stock", 0, "Units in stock")

	return cmd
}

func newProductsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := authenticatedApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Client.DeleteProduct(ctxOf(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed product %s\n", args[0])
			return nil
		},
	}
}
