// Package dashboard computes read-only reporting aggregates. Nothing is cached:
// every call re-reads storage.
package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/01moynul/bizdesk/internal/models"
)

const (
	DefaultTopProducts = 8
	DefaultTopClients  = 5
	DefaultRecent      = 10

	trailingMonths = 12
)

// Source is the reporting query surface, implemented by *store.Store.
type Source interface {
	DashboardStats(ctx context.Context, monthStart time.Time) (models.DashboardStats, error)
	OrderPointsSince(ctx context.Context, since time.Time) ([]models.OrderPoint, error)
	OrderStatusCounts(ctx context.Context) (map[models.OrderStatus]int, error)
	TopProducts(ctx context.Context, limit int) ([]models.ProductDistribution, error)
	TopClients(ctx context.Context, limit int) ([]models.TopClient, error)
	RecentTransactions(ctx context.Context, limit int) ([]models.RecentTransaction, error)
}

type Aggregator struct {
	src Source
	now func() time.Time
}

// New returns an Aggregator bucketing months in UTC.
func New(src Source) *Aggregator {
	return &Aggregator{src: src, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the time source; the returned time's location defines calendar months.
func (a *Aggregator) SetClock(now func() time.Time) { a.now = now }

func (a *Aggregator) Stats(ctx context.Context) (models.DashboardStats, error) {
	return a.src.DashboardStats(ctx, MonthStart(a.now()))
}

// Monthly returns the trailing twelve calendar months ending with the current one.
func (a *Aggregator) Monthly(ctx context.Context) ([]models.MonthlyData, error) {
	now := a.now()
	since := MonthStart(now).AddDate(0, -(trailingMonths - 1), 0)
	points, err := a.src.OrderPointsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return MonthlySeries(points, now), nil
}

func (a *Aggregator) StatusDistribution(ctx context.Context) ([]models.StatusDistribution, error) {
	counts, err := a.src.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	return Distribution(counts), nil
}

func (a *Aggregator) TopProducts(ctx context.Context, n int) ([]models.ProductDistribution, error) {
	return a.src.TopProducts(ctx, limitOr(n, DefaultTopProducts))
}

func (a *Aggregator) TopClients(ctx context.Context, n int) ([]models.TopClient, error) {
	return a.src.TopClients(ctx, limitOr(n, DefaultTopClients))
}

func (a *Aggregator) RecentTransactions(ctx context.Context, n int) ([]models.RecentTransaction, error) {
	return a.src.RecentTransactions(ctx, limitOr(n, DefaultRecent))
}

// MonthStart is midnight on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlySeries buckets points into the twelve months ending with now's month.
// Every month is present; transactions count all statuses, revenue only COMPLETED.
func MonthlySeries(points []models.OrderPoint, now time.Time) []models.MonthlyData {
	first := MonthStart(now).AddDate(0, -(trailingMonths - 1), 0)

	series := make([]models.MonthlyData, trailingMonths)
	for i := range series {
		series[i] = models.MonthlyData{
			Month:   first.AddDate(0, i, 0).Format("Jan 06"),
			Revenue: decimal.Zero,
		}
	}

	for _, p := range points {
		d := p.OrderDate.In(now.Location())
		i := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if i < 0 || i >= trailingMonths {
			continue
		}
		series[i].Transactions++
		if p.Status == models.OrderCompleted {
			series[i].Revenue = series[i].Revenue.Add(p.TotalAmount)
		}
	}

	for i := range series {
		series[i].Revenue = series[i].Revenue.Round(2)
	}
	return series
}

var distributionOrder = []struct {
	status models.OrderStatus
	label  string
}{
	{models.OrderCompleted, "Processed"},
	{models.OrderPending, "Processing"},
	{models.OrderCancelled, "Declined"},
}

// Distribution turns per-status counts into rounded percentages.
// With no orders every entry is zero.
func Distribution(counts map[models.OrderStatus]int) []models.StatusDistribution {
	total := 0
	for _, n := range counts {
		total += n
	}

	out := make([]models.StatusDistribution, 0, len(distributionOrder))
	for _, d := range distributionOrder {
		n := counts[d.status]
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(n) * 100 / float64(total)))
		}
		out = append(out, models.StatusDistribution{Status: d.status, Label: d.label, Count: n, Percentage: pct})
	}
	return out
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
