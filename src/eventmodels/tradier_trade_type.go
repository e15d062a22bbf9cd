package eventmodels

type TradierTradeType string

const (
	TradierTradeTypeMarket TradierTradeType = "market"
	TradierTradeTypeLimit  TradierTradeType = "limit"
	TradierTradeTypeDebit  TradierTradeType = "debit"
	TradierTradeTypeCredit TradierTradeType = "credit"
	TradierTradeTypeEven   TradierTradeType = "even"
)
