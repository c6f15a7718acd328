package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/enums"
)

// SpendingTotals carries the aggregate row behind CustomerSpending.
type SpendingTotals struct {
	TotalSpent decimal.Decimal `gorm:"column:total_spent"`
	OrderCount int64           `gorm:"column:order_count"`
}

// SalesTotals carries the aggregate row behind the sales report.
type SalesTotals struct {
	TotalRevenue    decimal.Decimal `gorm:"column:total_revenue"`
	CompletedOrders int64           `gorm:"column:completed_orders"`
}

// Repository defines the read-only aggregation queries the analytics
// service runs against the order store.
type Repository interface {
	SpendingTotals(ctx context.Context, customerID string) (SpendingTotals, error)
	LastOrderDate(ctx context.Context, customerID string) (*time.Time, error)
	TopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error)
	SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error)
	CategoryBreakdown(ctx context.Context, start, end time.Time) ([]CategoryRevenue, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SpendingTotals(ctx context.Context, customerID string) (SpendingTotals, error) {
	var row SpendingTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS total_spent,
			COUNT(*) AS order_count
		FROM orders
		WHERE customer_id = ? AND status = ?
	`, customerID, enums.OrderStatusCompleted).Scan(&row).Error
	return row, err
}

func (r *repository) LastOrderDate(ctx context.Context, customerID string) (*time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND status = ?", customerID, enums.OrderStatusCompleted).
		Order("order_date DESC").
		Limit(1).
		Pluck("order_date", &dates).Error
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	return &dates[0], nil
}

// TopSellingProducts ranks products by units sold across all orders. The
// left join keeps line items whose product was deleted from the catalog;
// those rows surface under the "Unknown Product" name. Ties on total_sold
// break on product id ascending so the ranking is deterministic.
func (r *repository) TopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT li.product_id AS product_id,
			COALESCE(p.name, 'Unknown Product') AS name,
			SUM(li.qty) AS total_sold
		FROM order_line_items li
		LEFT JOIN products p ON p.id = li.product_id
		GROUP BY li.product_id, p.name
		ORDER BY total_sold DESC, li.product_id ASC
		LIMIT ?
	`, limit).Scan(&rows).Error
	return rows, err
}

func (r *repository) SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error) {
	var row SalesTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS total_revenue,
			COUNT(*) AS completed_orders
		FROM orders
		WHERE status = ? AND order_date BETWEEN ? AND ?
	`, enums.OrderStatusCompleted, start, end).Scan(&row).Error
	return row, err
}

// CategoryBreakdown sums line item revenue per product category for completed
// orders inside the inclusive range. Line items whose product is gone from
// the catalog fall into the "uncategorized" bucket instead of being dropped.
func (r *repository) CategoryBreakdown(ctx context.Context, start, end time.Time) ([]CategoryRevenue, error) {
	var rows []CategoryRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(p.category, 'uncategorized') AS category,
			SUM(li.price_at_purchase * li.qty) AS revenue
		FROM order_line_items li
		JOIN orders o ON o.id = li.order_id
		LEFT JOIN products p ON p.id = li.product_id
		WHERE o.status = ? AND o.order_date BETWEEN ? AND ?
		GROUP BY COALESCE(p.category, 'uncategorized')
		ORDER BY revenue DESC, category ASC
	`, enums.OrderStatusCompleted, start, end).Scan(&rows).Error
	return rows, err
}
