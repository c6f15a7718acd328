package orders

import (
	"context"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error
	ListCustomerOrders(ctx context.Context, customerID string, params pagination.Params) ([]models.Order, int64, error)
}
