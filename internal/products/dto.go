package products

import "github.com/shopspring/decimal"

// CreateProductInput carries a validated catalog entry request.
type CreateProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
}
