package enums

// OrderStatus tracks the lifecycle of an order. Only completed orders are
// created today; the field exists so analytics can filter on it.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a known value.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusCompleted
}
