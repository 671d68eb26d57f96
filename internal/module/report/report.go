// Package report builds the dashboard: yearly revenue and order trends, the
// year summary and the order status breakdown.
package report

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// YearChoiceCount is how many years the year selector offers, counting the
// current one.
const YearChoiceCount = 5

var hundred = decimal.NewFromInt(100)

// Point is one month of a yearly series. The *Bar fields are the value as a
// percentage of the year's largest month, for drawing bar rows.
type Point struct {
	Month             int
	Label             string
	Revenue           decimal.Decimal
	DiscountedRevenue decimal.Decimal
	Orders            int64
	RevenueBar        int
	OrdersBar         int
}

// Summary totals one year.
type Summary struct {
	Revenue           decimal.Decimal
	DiscountedRevenue decimal.Decimal
	Orders            int64
}

// Year is the dashboard series of one calendar year.
type Year struct {
	Year    int
	Points  []Point
	Summary Summary
}

// BuildYear returns the 12 monthly points of year. Months without a report
// are zero. Several reports for the same month are added up.
func BuildYear(reports []domain.MonthlyReport, year int) Year {
	y := Year{Year: year, Points: make([]Point, 12)}
	for i := range y.Points {
		m := time.Month(i + 1)
		y.Points[i] = Point{Month: int(m), Label: m.String()[:3]}
	}

	for _, r := range reports {
		if r.Year != year || r.Month < 1 || r.Month > 12 {
			continue
		}
		p := &y.Points[r.Month-1]
		p.Revenue = p.Revenue.Add(r.TotalRevenue)
		p.DiscountedRevenue = p.DiscountedRevenue.Add(r.TotalDiscountedRevenue)
		p.Orders += r.TotalOrders
	}

	maxRevenue, maxOrders := decimal.Zero, int64(0)
	for _, p := range y.Points {
		y.Summary.Revenue = y.Summary.Revenue.Add(p.Revenue)
		y.Summary.DiscountedRevenue = y.Summary.DiscountedRevenue.Add(p.DiscountedRevenue)
		y.Summary.Orders += p.Orders
		maxRevenue = decimal.Max(maxRevenue, p.Revenue)
		maxOrders = max(maxOrders, p.Orders)
	}
	for i := range y.Points {
		p := &y.Points[i]
		if maxRevenue.IsPositive() {
			p.RevenueBar = int(p.Revenue.Mul(hundred).Div(maxRevenue).Round(0).IntPart())
		}
		if maxOrders > 0 {
			p.OrdersBar = int(p.Orders * 100 / maxOrders)
		}
	}
	return y
}

// StatusShare is one slice of the order status breakdown.
type StatusShare struct {
	Status  domain.OrderStatus
	Count   int64
	Percent decimal.Decimal
}

// Breakdown returns one share per known status, in lifecycle order, followed
// by any status the server reports that the console does not know. Percent is
// rounded to one decimal and is zero when there are no orders.
func Breakdown(counts []domain.OrderStatusCount) ([]StatusShare, int64) {
	byStatus := make(map[domain.OrderStatus]int64, len(counts))
	var extra []domain.OrderStatus
	var total int64
	for _, c := range counts {
		if _, seen := byStatus[c.Status]; !seen && !c.Status.Valid() {
			extra = append(extra, c.Status)
		}
		byStatus[c.Status] += c.OrderCount
		total += c.OrderCount
	}

	order := append(slices.Clone(domain.OrderStatuses), extra...)
	shares := make([]StatusShare, 0, len(order))
	for _, s := range order {
		share := StatusShare{Status: s, Count: byStatus[s], Percent: decimal.Zero}
		if total > 0 {
			share.Percent = decimal.NewFromInt(share.Count).Mul(hundred).Div(decimal.NewFromInt(total)).Round(1)
		}
		shares = append(shares, share)
	}
	return shares, total
}

// YearChoices returns the current year of now and the previous years, newest
// first.
func YearChoices(now time.Time) []int {
	years := make([]int, YearChoiceCount)
	for i := range years {
		years[i] = now.Year() - i
	}
	return years
}
