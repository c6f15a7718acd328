package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/shoplytics-backend/internal/products"
	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"github.com/angelmondragon/shoplytics-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order placement and history operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	CustomerOrders(ctx context.Context, customerID string, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo     Repository
	products products.Repository
	tx       txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		products: productsRepo,
		tx:       tx,
	}, nil
}

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// PlaceOrder validates the requested items against current stock, snapshots
// prices, decrements stock, and inserts the order. Every write happens in one
// transaction: any failure rolls back all stock decrements and the insert.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productsRepo := s.products.WithTx(tx)
		ordersRepo := s.repo.WithTx(tx)

		catalog, err := productsRepo.FindByIDs(ctx, distinctProductIDs(input.Items))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		byID := make(map[uuid.UUID]*models.Product, len(catalog))
		for i := range catalog {
			byID[catalog[i].ID] = &catalog[i]
		}

		orderID := uuid.New()
		total := decimal.Zero
		lineItems := make([]models.OrderLineItem, 0, len(input.Items))

		for position, item := range input.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown product %s", item.ProductID))
			}
			if product.Stock < item.Qty {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for product %s", product.ID)).
					WithDetails(map[string]any{"available": product.Stock, "requested": item.Qty})
			}

			priceAtPurchase := product.Price
			total = total.Add(priceAtPurchase.Mul(decimal.NewFromInt(int64(item.Qty))))

			reserved, err := productsRepo.DecrementStock(ctx, item.ProductID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !reserved {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for product %s", product.ID))
			}
			// Keep the in-memory view current so repeated ids in one request
			// are checked against the remaining stock.
			product.Stock -= item.Qty

			lineItems = append(lineItems, models.OrderLineItem{
				ID:              uuid.New(),
				OrderID:         orderID,
				ProductID:       item.ProductID,
				Qty:             item.Qty,
				PriceAtPurchase: priceAtPurchase,
				Position:        position,
			})
		}

		order := &models.Order{
			ID:          orderID,
			CustomerID:  input.CustomerID,
			TotalAmount: total,
			OrderDate:   timeNowUTC(),
			Status:      enums.OrderStatusCompleted,
		}
		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := ordersRepo.CreateOrderLineItems(ctx, lineItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order line items")
		}

		order.Items = lineItems
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CustomerOrders returns a page of the customer's order history sorted by
// order date descending, plus the total matching count.
func (s *service) CustomerOrders(ctx context.Context, customerID string, params pagination.Params) (*OrderList, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	orders, totalCount, err := s.repo.ListCustomerOrders(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &OrderList{Orders: orders, TotalCount: totalCount}, nil
}

func distinctProductIDs(items []OrderItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
