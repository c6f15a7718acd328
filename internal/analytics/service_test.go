package analytics

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
)

type fakeCache struct {
	entries      map[string][]byte
	computeCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) SalesAnalyticsKey(start, end time.Time) string {
	return "sales:" + start.UTC().Format(time.RFC3339) + ":" + end.UTC().Format(time.RFC3339)
}

func (c *fakeCache) ComputeOrFetch(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if stored, ok := c.entries[key]; ok {
		return stored, true, nil
	}
	c.computeCalls++
	payload, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	c.entries[key] = payload
	return payload, false, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:analytics_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *fakeCache, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, nil, time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, cache, db
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price decimal.Decimal) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    100,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product.ID
}

type seedItem struct {
	productID uuid.UUID
	qty       int
	price     decimal.Decimal
}

func seedOrder(t *testing.T, db *gorm.DB, customerID string, orderDate time.Time, items ...seedItem) {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.price.Mul(decimal.NewFromInt(int64(item.qty))))
	}
	order := models.Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		TotalAmount: total,
		OrderDate:   orderDate,
		Status:      enums.OrderStatusCompleted,
	}
	if err := db.Omit("Items").Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	for pos, item := range items {
		lineItem := models.OrderLineItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       item.productID,
			Qty:             item.qty,
			PriceAtPurchase: item.price,
			Position:        pos,
		}
		if err := db.Create(&lineItem).Error; err != nil {
			t.Fatalf("seed line item: %v", err)
		}
	}
}

func TestCustomerSpending(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()
	productID := seedProduct(t, db, "Monitor", "electronics", decimal.NewFromInt(150))

	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	seedOrder(t, db, "cust-1", older, seedItem{productID, 1, decimal.NewFromInt(150)})
	seedOrder(t, db, "cust-1", newer, seedItem{productID, 2, decimal.NewFromInt(150)})
	seedOrder(t, db, "cust-other", newer, seedItem{productID, 5, decimal.NewFromInt(150)})

	spending, err := svc.CustomerSpending(ctx, "cust-1")
	if err != nil {
		t.Fatalf("customer spending: %v", err)
	}
	if !spending.TotalSpent.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected total 450, got %s", spending.TotalSpent)
	}
	if !spending.AverageOrderValue.Equal(decimal.NewFromInt(225)) {
		t.Fatalf("expected average 225, got %s", spending.AverageOrderValue)
	}
	if spending.LastOrderDate == nil || !spending.LastOrderDate.Equal(newer) {
		t.Fatalf("expected last order date %s, got %v", newer, spending.LastOrderDate)
	}
}

func TestCustomerSpendingNoOrders(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	spending, err := svc.CustomerSpending(context.Background(), "cust-none")
	if err != nil {
		t.Fatalf("empty history must not error: %v", err)
	}
	if !spending.TotalSpent.IsZero() || !spending.AverageOrderValue.IsZero() {
		t.Fatalf("expected zero totals, got %+v", spending)
	}
	if spending.LastOrderDate != nil {
		t.Fatalf("expected nil last order date, got %v", spending.LastOrderDate)
	}
}

func TestCustomerSpendingRequiresCustomerID(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.CustomerSpending(context.Background(), "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTopSellingProductsRankingAndLimit(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()
	when := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	productA := seedProduct(t, db, "Alpha", "gadgets", decimal.NewFromInt(10))
	productB := seedProduct(t, db, "Beta", "gadgets", decimal.NewFromInt(20))
	productC := seedProduct(t, db, "Gamma", "gadgets", decimal.NewFromInt(30))

	// Units per product: A=10, B=7, C=3, spread over several orders.
	seedOrder(t, db, "cust-1", when, seedItem{productA, 6, decimal.NewFromInt(10)}, seedItem{productB, 7, decimal.NewFromInt(20)})
	seedOrder(t, db, "cust-2", when, seedItem{productA, 4, decimal.NewFromInt(10)}, seedItem{productC, 3, decimal.NewFromInt(30)})

	top, err := svc.TopSellingProducts(ctx, 2)
	if err != nil {
		t.Fatalf("top selling products: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].ProductID != productA || top[0].TotalSold != 10 {
		t.Fatalf("expected A with 10 units first, got %+v", top[0])
	}
	if top[1].ProductID != productB || top[1].TotalSold != 7 {
		t.Fatalf("expected B with 7 units second, got %+v", top[1])
	}
	if top[0].Name != "Alpha" || top[1].Name != "Beta" {
		t.Fatalf("expected catalog names, got %q and %q", top[0].Name, top[1].Name)
	}
}

func TestTopSellingProductsUnknownProductFallback(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()
	when := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	productID := seedProduct(t, db, "Doomed", "gadgets", decimal.NewFromInt(15))
	seedOrder(t, db, "cust-1", when, seedItem{productID, 4, decimal.NewFromInt(15)})

	// Simulate a catalog deletion after the order was placed.
	if err := db.Delete(&models.Product{}, "id = ?", productID).Error; err != nil {
		t.Fatalf("delete product: %v", err)
	}

	top, err := svc.TopSellingProducts(ctx, 10)
	if err != nil {
		t.Fatalf("top selling products: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Unknown Product" || top[0].TotalSold != 4 {
		t.Fatalf("expected Unknown Product fallback, got %+v", top)
	}
}

func TestSalesAnalyticsReport(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestService(t)
	ctx := context.Background()

	laptops := seedProduct(t, db, "Laptop", "computers", decimal.NewFromInt(1000))
	cables := seedProduct(t, db, "Cable", "accessories", decimal.NewFromInt(10))
	orphan := seedProduct(t, db, "Orphan", "misc", decimal.NewFromInt(50))

	inRange := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	seedOrder(t, db, "cust-1", inRange,
		seedItem{laptops, 1, decimal.NewFromInt(1000)},
		seedItem{cables, 3, decimal.NewFromInt(10)})
	seedOrder(t, db, "cust-2", inRange, seedItem{orphan, 2, decimal.NewFromInt(50)})
	seedOrder(t, db, "cust-3", outOfRange, seedItem{laptops, 5, decimal.NewFromInt(1000)})

	if err := db.Delete(&models.Product{}, "id = ?", orphan).Error; err != nil {
		t.Fatalf("delete product: %v", err)
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	report, err := svc.SalesAnalytics(ctx, start, end)
	if err != nil {
		t.Fatalf("sales analytics: %v", err)
	}

	if report.CompletedOrders != 2 {
		t.Fatalf("expected 2 completed orders in range, got %d", report.CompletedOrders)
	}
	if !report.TotalRevenue.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("expected revenue 1130, got %s", report.TotalRevenue)
	}

	byCategory := map[string]decimal.Decimal{}
	for _, bucket := range report.CategoryBreakdown {
		byCategory[bucket.Category] = bucket.Revenue
	}
	if !byCategory["computers"].Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected computers revenue 1000, got %s", byCategory["computers"])
	}
	if !byCategory["accessories"].Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected accessories revenue 30, got %s", byCategory["accessories"])
	}
	if !byCategory["uncategorized"].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("deleted product revenue must land in uncategorized, got %s", byCategory["uncategorized"])
	}
}

func TestSalesAnalyticsCacheHitSkipsStore(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, nil, time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	productID := seedProduct(t, db, "Phone", "electronics", decimal.NewFromInt(500))
	when := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	seedOrder(t, db, "cust-1", when, seedItem{productID, 1, decimal.NewFromInt(500)})

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	first, err := svc.SalesAnalytics(ctx, start, end)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if cache.computeCalls != 1 {
		t.Fatalf("first call must hit the store once, got %d", cache.computeCalls)
	}
	firstPayload := cache.entries[cache.SalesAnalyticsKey(start, end)]

	// New rows written after caching must not leak into the cached window.
	seedOrder(t, db, "cust-2", when, seedItem{productID, 3, decimal.NewFromInt(500)})

	second, err := svc.SalesAnalytics(ctx, start, end)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if cache.computeCalls != 1 {
		t.Fatalf("second call must be served from cache, store queries went to %d", cache.computeCalls)
	}
	if !second.TotalRevenue.Equal(first.TotalRevenue) || second.CompletedOrders != first.CompletedOrders {
		t.Fatalf("cached report diverged: first %+v second %+v", first, second)
	}
	secondPayload := cache.entries[cache.SalesAnalyticsKey(start, end)]
	if !bytes.Equal(firstPayload, secondPayload) {
		t.Fatalf("cached payload must be returned unchanged")
	}
}

func TestSalesAnalyticsRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc, cache, _ := newTestService(t)
	start := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SalesAnalytics(context.Background(), start, end)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if cache.computeCalls != 0 {
		t.Fatalf("invalid range must not reach the store")
	}
}

func TestSalesAnalyticsEmptyRange(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.SalesAnalytics(context.Background(), start, end)
	if err != nil {
		t.Fatalf("empty range must not error: %v", err)
	}
	if report.CompletedOrders != 0 || !report.TotalRevenue.IsZero() {
		t.Fatalf("expected zero totals, got %+v", report)
	}
	if report.CategoryBreakdown == nil || len(report.CategoryBreakdown) != 0 {
		t.Fatalf("expected empty breakdown slice, got %+v", report.CategoryBreakdown)
	}
}
