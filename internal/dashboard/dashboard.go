// Package dashboard aggregates sales into the figures shown on the sales
// dashboard.
package dashboard

import (
	"sort"
	"time"

	"github.com/inventario-app/inventario/internal/cli/client"
)

const topProductsLimit = 5

// DayRevenue is the revenue of one calendar day
type DayRevenue struct {
	Day     time.Time
	Revenue float64
	Count   int
}

// ProductSales is how much of one product was sold
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   float64
}

// Summary is the dashboard's view of a period
type Summary struct {
	From          time.Time
	To            time.Time
	Revenue       float64
	Count         int
	AverageTicket float64
	ByDay         []DayRevenue
	TopProducts   []ProductSales
}

// Summarize aggregates the sales created in [from, to). Days are bucketed in
// the location of from.
func Summarize(sales []client.Sale, from, to time.Time) Summary {
	s := Summary{From: from, To: to}
	loc := from.Location()

	days := make(map[time.Time]*DayRevenue)
	products := make(map[string]*ProductSales)

	for _, sale := range sales {
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}

		total := sale.Total
		if total == 0 {
			for _, item := range sale.Items {
				total += item.Subtotal()
			}
		}

		s.Revenue += total
		s.Count++

		t := sale.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		d, ok := days[day]
		if !ok {
			d = &DayRevenue{Day: day}
			days[day] = d
		}
		d.Revenue += total
		d.Count++

		for _, item := range sale.Items {
			p, ok := products[item.ProductID]
			if !ok {
				p = &ProductSales{ProductID: item.ProductID, Name: item.ProductName}
				products[item.ProductID] = p
			}
			p.Quantity += item.Quantity
			p.Revenue += item.Subtotal()
		}
	}

	if s.Count > 0 {
		s.AverageTicket = s.Revenue / float64(s.Count)
	}

	for _, d := range days {
		s.ByDay = append(s.ByDay, *d)
	}
	sort.Slice(s.ByDay, func(i, j int) bool { return s.ByDay[i].Day.Before(s.ByDay[j].Day) })

	for _, p := range products {
		s.TopProducts = append(s.TopProducts, *p)
	}
	sort.Slice(s.TopProducts, func(i, j int) bool {
		a, b := s.TopProducts[i], s.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(s.TopProducts) > topProductsLimit {
		s.TopProducts = s.TopProducts[:topProductsLimit]
	}

	return s
}

// LastDays returns the [from, to) window covering the n days up to and
// including now's day
func LastDays(now time.Time, n int) (time.Time, time.Time) {
	if n < 1 {
		n = 1
	}
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return to.AddDate(0, 0, -n), to
}
