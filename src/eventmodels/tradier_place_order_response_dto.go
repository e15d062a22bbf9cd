package eventmodels

type TradierPlaceOrderResponseDTO struct {
	Order struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	} `json:"order"`
}
