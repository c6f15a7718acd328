package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/enums"
	"github.com/angelmondragon/shoplytics-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestListCustomerOrdersPagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var orderIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		order := &models.Order{
			ID:          uuid.New(),
			CustomerID:  "cust-1",
			TotalAmount: decimal.NewFromInt(int64(10 * (i + 1))),
			OrderDate:   base.Add(time.Duration(i) * time.Hour),
			Status:      enums.OrderStatusCompleted,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		orderIDs = append(orderIDs, order.ID)
	}

	// Another customer's order must not leak into the page or the count.
	other := &models.Order{
		ID:          uuid.New(),
		CustomerID:  "cust-2",
		TotalAmount: decimal.NewFromInt(99),
		OrderDate:   base,
		Status:      enums.OrderStatusCompleted,
	}
	if _, err := repo.CreateOrder(ctx, other); err != nil {
		t.Fatalf("create other order: %v", err)
	}

	orders, total, err := repo.ListCustomerOrders(ctx, "cust-1", pagination.Params{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order in page, got %d", len(orders))
	}
	if orders[0].ID != orderIDs[1] {
		t.Fatalf("expected second-most-recent order, got %s", orders[0].ID)
	}
}

func TestListCustomerOrdersPreservesLineItemOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:          uuid.New(),
		CustomerID:  "cust-1",
		TotalAmount: decimal.NewFromInt(30),
		OrderDate:   time.Now().UTC(),
		Status:      enums.OrderStatusCompleted,
	}
	if _, err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	productA := uuid.New()
	productB := uuid.New()
	items := []models.OrderLineItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: productB, Qty: 1, PriceAtPurchase: decimal.NewFromInt(10), Position: 1},
		{ID: uuid.New(), OrderID: order.ID, ProductID: productA, Qty: 2, PriceAtPurchase: decimal.NewFromInt(10), Position: 0},
	}
	if err := repo.CreateOrderLineItems(ctx, items); err != nil {
		t.Fatalf("create line items: %v", err)
	}

	orders, _, err := repo.ListCustomerOrders(ctx, "cust-1", pagination.Params{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 || len(orders[0].Items) != 2 {
		t.Fatalf("expected one order with two items, got %+v", orders)
	}
	if orders[0].Items[0].ProductID != productA || orders[0].Items[1].ProductID != productB {
		t.Fatalf("line items must come back in caller-supplied position order")
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
