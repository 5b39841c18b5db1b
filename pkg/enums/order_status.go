package enums

// OrderStatus tracks an order's delivery lifecycle. The transition out of
// pending happens at most once per allocation run; assigned is terminal.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPostponed OrderStatus = "postponed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusPostponed:
		return true
	default:
		return false
	}
}
