package eventmodels

type TradierFetchOrderResponseDTO struct {
	Order TradierOrderDTO `json:"order"`
}
