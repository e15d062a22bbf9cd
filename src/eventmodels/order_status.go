package eventmodels

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusOpen            OrderStatus = "open"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusExpired         OrderStatus = "expired"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusError           OrderStatus = "error"
)

func (s OrderStatus) IsFilled() bool {
	return s == OrderStatusFilled
}

// IsTerminal reports whether the broker will make no further updates to an
// order in this status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusExpired, OrderStatusCanceled, OrderStatusRejected, OrderStatusError:
		return true
	default:
		return false
	}
}

func (s OrderStatus) IsWorking() bool {
	switch s {
	case OrderStatusPending, OrderStatusOpen, OrderStatusPartiallyFilled:
		return true
	default:
		return false
	}
}
