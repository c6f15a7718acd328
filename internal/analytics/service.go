package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"github.com/angelmondragon/shoplytics-backend/pkg/metrics"
)

const (
	// DefaultTopLimit bounds TopSellingProducts when the caller omits a limit.
	DefaultTopLimit = 10
	// MaxTopLimit caps the ranking size for any single request.
	MaxTopLimit = 100

	defaultSalesTTL = 5 * time.Minute
)

// salesCache is the slice of the redis client the sales report needs.
type salesCache interface {
	SalesAnalyticsKey(start, end time.Time) string
	ComputeOrFetch(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) ([]byte, error)) ([]byte, bool, error)
}

// Service exposes the read-only aggregations over the order store.
type Service interface {
	CustomerSpending(ctx context.Context, customerID string) (*CustomerSpending, error)
	TopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error)
	SalesAnalytics(ctx context.Context, start, end time.Time) (*SalesReport, error)
}

type service struct {
	repo     Repository
	cache    salesCache
	store    *metrics.StoreMetrics
	salesTTL time.Duration
}

// NewService wires the analytics service. The metrics collector may be nil;
// the repository and cache are required.
func NewService(repo Repository, cache salesCache, store *metrics.StoreMetrics, salesTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("analytics cache required")
	}
	if salesTTL <= 0 {
		salesTTL = defaultSalesTTL
	}
	return &service{repo: repo, cache: cache, store: store, salesTTL: salesTTL}, nil
}

func (s *service) CustomerSpending(ctx context.Context, customerID string) (*CustomerSpending, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	s.store.IncQuery("customer_spending")
	totals, err := s.repo.SpendingTotals(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate customer spending")
	}

	result := &CustomerSpending{
		CustomerID:        customerID,
		TotalSpent:        totals.TotalSpent,
		AverageOrderValue: decimal.Zero,
	}
	if totals.OrderCount == 0 {
		// No completed orders is a valid empty result, not an error.
		result.TotalSpent = decimal.Zero
		return result, nil
	}

	result.AverageOrderValue = totals.TotalSpent.
		Div(decimal.NewFromInt(totals.OrderCount)).
		Round(2)

	last, err := s.repo.LastOrderDate(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last order date")
	}
	result.LastOrderDate = last
	return result, nil
}

func (s *service) TopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	s.store.IncQuery("top_products")
	rows, err := s.repo.TopSellingProducts(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank top selling products")
	}
	return rows, nil
}

// SalesAnalytics serves the date-range report through the cache. Identical
// ranges inside the TTL window return the stored payload unchanged without
// touching the order store.
func (s *service) SalesAnalytics(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	start = start.UTC()
	end = end.UTC()
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date").
			WithDetails(map[string]any{
				"start_date": start.Format(time.RFC3339),
				"end_date":   end.Format(time.RFC3339),
			})
	}

	key := s.cache.SalesAnalyticsKey(start, end)
	payload, hit, err := s.cache.ComputeOrFetch(ctx, key, s.salesTTL, func(ctx context.Context) ([]byte, error) {
		return s.computeSalesReport(ctx, start, end)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute sales analytics")
	}

	if hit {
		s.store.IncCacheHit()
	} else {
		s.store.IncCacheMiss()
	}

	var report SalesReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode sales report payload")
	}
	return &report, nil
}

func (s *service) computeSalesReport(ctx context.Context, start, end time.Time) ([]byte, error) {
	s.store.IncQuery("sales_analytics")

	totals, err := s.repo.SalesTotals(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate sales totals")
	}
	breakdown, err := s.repo.CategoryBreakdown(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate category revenue")
	}
	if breakdown == nil {
		breakdown = []CategoryRevenue{}
	}

	report := SalesReport{
		StartDate:         start,
		EndDate:           end,
		TotalRevenue:      totals.TotalRevenue,
		CompletedOrders:   totals.CompletedOrders,
		CategoryBreakdown: breakdown,
	}
	return json.Marshal(report)
}
