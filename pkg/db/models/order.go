package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shoplytics-backend/pkg/enums"
)

// Order is immutable once created. TotalAmount always equals the sum of
// price_at_purchase * qty over its line items.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID  string            `gorm:"column:customer_id;not null;index" json:"customer_id"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null" json:"total_amount"`
	OrderDate   time.Time         `gorm:"column:order_date;not null;index" json:"order_date"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'completed'" json:"status"`
	Items       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
