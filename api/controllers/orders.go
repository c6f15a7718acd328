package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	ordersvc "github.com/angelmondragon/shoplytics-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
	"github.com/angelmondragon/shoplytics-backend/pkg/pagination"
)

type placeOrderRequest struct {
	CustomerID string                  `json:"customer_id" validate:"required"`
	Products   []placeOrderItemRequest `json:"products" validate:"required,min=1,dive"`
}

type placeOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

func (r placeOrderRequest) toInput() (ordersvc.PlaceOrderInput, error) {
	items := make([]ordersvc.OrderItemInput, 0, len(r.Products))
	for _, item := range r.Products {
		productID, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			return ordersvc.PlaceOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		items = append(items, ordersvc.OrderItemInput{ProductID: productID, Qty: item.Quantity})
	}
	return ordersvc.PlaceOrderInput{
		CustomerID: strings.TrimSpace(r.CustomerID),
		Items:      items,
	}, nil
}

// PlaceOrder handles order placement.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, input.CustomerID)
		}

		order, err := svc.PlaceOrder(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// CustomerOrders returns one page of a customer's order history.
func CustomerOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID := strings.TrimSpace(chi.URLParam(r, "customerID"))
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID)
		}

		list, err := svc.CustomerOrders(ctx, customerID, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
