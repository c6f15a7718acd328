package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	analyticsvc "github.com/angelmondragon/shoplytics-backend/internal/analytics"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

// CustomerSpending returns the completed-order spending summary for a customer.
func CustomerSpending(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		customerID := strings.TrimSpace(chi.URLParam(r, "customerID"))

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID)
		}

		spending, err := svc.CustomerSpending(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, spending)
	}
}

// TopSellingProducts returns the units-sold product ranking.
func TopSellingProducts(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", analyticsvc.DefaultTopLimit, 1, analyticsvc.MaxTopLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		top, err := svc.TopSellingProducts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, top)
	}
}

// SalesAnalytics returns the cached date-range sales report.
func SalesAnalytics(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SalesAnalytics(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
