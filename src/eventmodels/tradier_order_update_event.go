package eventmodels

type TradierOrderCreateEvent struct {
	Order *TradierOrder
}

type TradierOrderModifyEvent struct {
	OrderID uint
	Field   string
	Old     interface{}
	New     interface{}
}

type TradierOrderDeleteEvent struct {
	OrderID uint
}

type TradierOrderUpdateEvent struct {
	CreateOrder *TradierOrderCreateEvent
	ModifyOrder *TradierOrderModifyEvent
	DeleteOrder *TradierOrderDeleteEvent
}
