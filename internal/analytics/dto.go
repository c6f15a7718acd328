package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSpending summarizes a customer's completed order history.
// LastOrderDate is nil when the customer has no completed orders.
type CustomerSpending struct {
	CustomerID        string          `json:"customer_id"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	LastOrderDate     *time.Time      `json:"last_order_date"`
}

// TopProduct is one row of the units-sold ranking. Name falls back to
// "Unknown Product" when the product was removed from the catalog after
// being ordered.
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int64     `json:"total_sold"`
}

// CategoryRevenue is one bucket of the sales report breakdown. Line items
// whose product no longer exists land in the "uncategorized" bucket.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesReport aggregates completed orders inside an inclusive date range.
type SalesReport struct {
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	CompletedOrders   int64             `json:"completed_orders"`
	CategoryBreakdown []CategoryRevenue `json:"category_breakdown"`
}
