package services

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "sales-report/internal/errors"
	"sales-report/internal/models"
	"sales-report/internal/observability"
)

const (
	DefaultTopN             = 3
	DefaultWindow           = 7 * 24 * time.Hour
	defaultProgressInterval = time.Second
)

type Analytics struct {
	logger           *slog.Logger
	topN             int
	window           time.Duration
	progressInterval time.Duration
	recordsProcessed atomic.Int64
}

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithTopN(n int) Option {
	return func(a *Analytics) { a.topN = n }
}

func WithWindow(window time.Duration) Option {
	return func(a *Analytics) { a.window = window }
}

func WithProgressInterval(interval time.Duration) Option {
	return func(a *Analytics) { a.progressInterval = interval }
}

func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{
		logger:           slog.Default(),
		topN:             DefaultTopN,
		window:           DefaultWindow,
		progressInterval: defaultProgressInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildReport computes every metric over table. The counters, the product
// ranking and the rolling averages only read table, so they run side by side
// and each fills its own report field.
func (a *Analytics) BuildReport(ctx context.Context, table *models.Table) (*models.Report, error) {
	ctx, span := observability.StartSpan(ctx, "aggregate")
	defer span.End(a.logger)

	if a.topN < 1 {
		err := apperrors.Internal("top n must be positive")
		span.SetError(err)
		return nil, err
	}

	if table == nil {
		table = &models.Table{}
	}

	report := models.NewReport()
	report.RowCount = table.Len()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.RegionsCount = CountRegions(table)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.TopProducts = TopProducts(table, a.topN)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.RollingRevenue = RollingRevenueByRegion(table, a.window)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := checkFinite(report); err != nil {
		span.SetError(err)
		return nil, err
	}

	span.SetTag("rows", strconv.Itoa(report.RowCount))
	span.SetTag("regions", strconv.Itoa(report.RegionsCount))
	return report, nil
}

// checkFinite rejects totals that overflowed while summing finite rows.
func checkFinite(report *models.Report) error {
	for _, p := range report.TopProducts {
		if !isFinite(p.Revenue) {
			return apperrors.Parse("revenue total out of range").WithDetails("product %q", p.Product)
		}
	}
	for region, mean := range report.RollingRevenue {
		if mean != nil && !isFinite(*mean) {
			return apperrors.Parse("rolling revenue out of range").WithDetails("region %q", region)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CountRegions returns the number of distinct non-empty region labels.
func CountRegions(table *models.Table) int {
	seen := make(map[string]struct{})
	for _, tx := range table.Transactions {
		if tx.Region == "" {
			continue
		}
		seen[tx.Region] = struct{}{}
	}
	return len(seen)
}

// TopProducts sums revenue per product and returns the n largest totals,
// rounded to cents. Equal totals keep the order in which the products first
// appear in table.
func TopProducts(table *models.Table, n int) []models.ProductRevenue {
	index := make(map[string]int)
	groups := make([]models.ProductRevenue, 0)

	for _, tx := range table.Transactions {
		if tx.Product == "" {
			continue
		}
		i, ok := index[tx.Product]
		if !ok {
			i = len(groups)
			index[tx.Product] = i
			groups = append(groups, models.ProductRevenue{Product: tx.Product})
		}
		groups[i].Revenue += tx.Revenue
	}

	slices.SortStableFunc(groups, func(a, b models.ProductRevenue) int {
		if a.Revenue > b.Revenue {
			return -1
		}
		if a.Revenue < b.Revenue {
			return 1
		}
		return 0
	})

	if len(groups) > n {
		groups = groups[:n]
	}
	for i := range groups {
		groups[i].Revenue = Round2(groups[i].Revenue)
	}
	return groups
}

// Stats reports counters for the completed run.
func (a *Analytics) Stats() map[string]any {
	return map[string]any{
		"records_processed": a.recordsProcessed.Load(),
		"top_n":             a.topN,
		"window":            a.window.String(),
	}
}
