package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
)

func newServiceWithDB(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(newTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	svc := newServiceWithDB(t)
	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:     "  Keyboard  ",
		Category: "electronics",
		Price:    decimal.RequireFromString("49.99"),
		Stock:    12,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Keyboard", product.Name)
	assert.Equal(t, 12, product.Stock)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("49.99")))

	loaded, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, loaded.ID)
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := newServiceWithDB(t)
	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"blank name", CreateProductInput{Name: "  ", Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{Name: "Pen", Price: decimal.NewFromInt(-1)}},
		{"negative stock", CreateProductInput{Name: "Pen", Price: decimal.NewFromInt(1), Stock: -5}},
	}

	for _, tt := range tests {
		_, err := svc.CreateProduct(context.Background(), tt.input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, tt.name)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), tt.name)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc := newServiceWithDB(t)
	_, err := svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
