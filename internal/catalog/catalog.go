// Package catalog filters and orders products for display.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/inventario-app/inventario/internal/cli/client"
)

// DefaultLowStock is the stock level at or below which a product is "low"
const DefaultLowStock = 5

// Field is a product attribute the list can be ordered by
type Field string

const (
	ByName     Field = "name"
	ByPrice    Field = "price"
	ByStock    Field = "stock"
	ByCategory Field = "category"
)

// ParseField validates a sort field name
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ByName, nil
	case ByName, ByPrice, ByStock, ByCategory:
		return f, nil
	default:
		return "", fmt.Errorf("invalid sort field '%s', must be one of: name, price, stock, category", s)
	}
}

// Filter narrows the product list. Zero values match everything.
type Filter struct {
	Query             string
	Category          string
	LowStockOnly      bool
	LowStockThreshold int
}

// Sort orders the product list
type Sort struct {
	Field Field
	Desc  bool
}

// Apply returns the products matching f, ordered by s. The input is not modified.
func Apply(products []client.Product, f Filter, s Sort) []client.Product {
	query := fold(f.Query)
	category := fold(f.Category)
	threshold := f.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStock
	}

	out := make([]client.Product, 0, len(products))
	for _, p := range products {
		if category != "" && fold(p.Category) != category {
			continue
		}
		if f.LowStockOnly && p.Stock > threshold {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	less := lessFunc(s.Field)
	sort.SliceStable(out, func(i, j int) bool {
		if s.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Categories returns the distinct categories in display order
func Categories(products []client.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		key := fold(p.Category)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p.Category)
	}
	sort.Slice(out, func(i, j int) bool { return fold(out[i]) < fold(out[j]) })
	return out
}

func matches(p client.Product, query string) bool {
	return strings.Contains(fold(p.Name), query) ||
		strings.Contains(fold(p.Description), query) ||
		strings.Contains(fold(p.Category), query)
}

func lessFunc(field Field) func(a, b client.Product) bool {
	switch field {
	case ByPrice:
		return func(a, b client.Product) bool { return a.Price < b.Price }
	case ByStock:
		return func(a, b client.Product) bool { return a.Stock < b.Stock }
	case ByCategory:
		return func(a, b client.Product) bool {
			ca, cb := fold(a.Category), fold(b.Category)
			if ca != cb {
				return ca < cb
			}
			return fold(a.Name) < fold(b.Name)
		}
	default:
		return func(a, b client.Product) bool { return fold(a.Name) < fold(b.Name) }
	}
}

// fold lowercases s and strips diacritics so "Café" matches "cafe"
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
