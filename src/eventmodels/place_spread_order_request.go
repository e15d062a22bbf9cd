package eventmodels

type PlaceSpreadOrderRequest struct {
	Underlying        StockSymbol
	ShortOptionSymbol OptionSymbol
	LongOptionSymbol  OptionSymbol
	ShortSide         string
	LongSide          string
	Quantity          int
	TradeType         TradierTradeType
	TradeDuration     TradeDuration
	Price             float64
	Tag               string
}

type PlaceLegOrderRequest struct {
	Underlying    StockSymbol
	OptionSymbol  OptionSymbol
	Side          string
	Quantity      int
	TradeType     TradierTradeType
	TradeDuration TradeDuration
	Price         float64
	Tag           string
}
