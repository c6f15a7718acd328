package orders

import (
	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/google/uuid"
)

// OrderItemInput is one requested product/quantity pair.
type OrderItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// PlaceOrderInput captures the data required to place an order.
type PlaceOrderInput struct {
	CustomerID string
	Items      []OrderItemInput
}

// OrderList wraps one page of a customer's order history plus the total
// matching count, independent of the pagination window.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	TotalCount int64          `json:"total_count"`
}
