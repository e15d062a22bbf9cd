package eventmodels

type FetchTradierBalancesResponseDTO struct {
	Balances struct {
		TotalEquity float64 `json:"total_equity"`
		AccountType string  `json:"account_type"`
		OpenPL      float64 `json:"open_pl"`
		ClosePL     float64 `json:"close_pl"`
		Margin      *struct {
			OptionBuyingPower float64 `json:"option_buying_power"`
			StockBuyingPower  float64 `json:"stock_buying_power"`
		} `json:"margin"`
	} `json:"balances"`
}
