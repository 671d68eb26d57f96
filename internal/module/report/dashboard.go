package report

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// Source provides the report history and the order status counts.
type Source interface {
	Reports(ctx context.Context) ([]domain.MonthlyReport, error)
	OrderStatusCounts(ctx context.Context) ([]domain.OrderStatusCount, error)
}

// Dashboard is the per-session dashboard model. Mount fetches the whole
// report history once; selecting a year only filters the cached history.
type Dashboard struct {
	src Source
	now func() time.Time

	mu        sync.Mutex
	reports   []domain.MonthlyReport
	counts    []domain.OrderStatusCount
	loaded    bool
	reportErr error
	statusErr error
	year      int
}

// NewDashboard creates a Dashboard showing the current year.
func NewDashboard(src Source, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{src: src, now: now, year: now().Year()}
}

// Mount fetches the report history and the status counts. Both are fetched
// even if one fails; the returned error joins the failures.
func (d *Dashboard) Mount(ctx context.Context) error {
	reports, reportErr := d.src.Reports(ctx)
	counts, statusErr := d.src.OrderStatusCounts(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = true
	d.reportErr, d.statusErr = reportErr, statusErr
	if reportErr == nil {
		d.reports = reports
	}
	if statusErr == nil {
		d.counts = counts
	}
	return errors.Join(reportErr, statusErr)
}

// Loaded reports whether Mount has run.
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// SelectYear switches the shown year without fetching. Only the offered
// years are accepted.
func (d *Dashboard) SelectYear(year int) error {
	if !slices.Contains(YearChoices(d.now()), year) {
		return domain.NewAppError(domain.CodeValidation, "Unsupported year", nil)
	}
	d.mu.Lock()
	d.year = year
	d.mu.Unlock()
	return nil
}

// View is everything the dashboard template renders.
type View struct {
	Year        Year
	Years       []int
	Statuses    []StatusShare
	TotalOrders int64
	ReportErr   error
	StatusErr   error
}

// View builds the dashboard for the selected year from the cached data.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	shares, total := Breakdown(d.counts)
	return View{
		Year:        BuildYear(d.reports, d.year),
		Years:       YearChoices(d.now()),
		Statuses:    shares,
		TotalOrders: total,
		ReportErr:   d.reportErr,
		StatusErr:   d.statusErr,
	}
}
