package eventmodels

import "time"

type OptionOrderSpreadResult struct {
	OrderID                 uint         `json:"order_id"`
	Underlying              StockSymbol  `json:"underlying"`
	ExecutionType           string       `json:"execution_type"`
	Strategy                string       `json:"strategy"`
	CreatedTimestamp        time.Time    `json:"created_timestamp"`
	DebitPaid               float64      `json:"debit_paid"`
	CreditReceived          float64      `json:"credit_received"`
	OrderID1                uint         `json:"order_id_1"`
	Side1                   string       `json:"side_1"`
	OptionType1             OptionType   `json:"option_type_1"`
	Symbol1                 OptionSymbol `json:"symbol_1"`
	StrikePrice1            float64      `json:"strike_price_1"`
	Quantity1               float64      `json:"quantity_1"`
	AvgFillPrice1           float64      `json:"avg_fill_price_1"`
	OrderID2                uint         `json:"order_id_2"`
	Side2                   string       `json:"side_2"`
	OptionType2             OptionType   `json:"option_type_2"`
	Symbol2                 OptionSymbol `json:"symbol_2"`
	StrikePrice2            float64      `json:"strike_price_2"`
	Quantity2               float64      `json:"quantity_2"`
	AvgFillPrice2           float64      `json:"avg_fill_price_2"`
	SignalName              string       `json:"signal_name"`
	ExpirationDate          time.Time    `json:"expiration_date"`
	ExpectedProfit          float64      `json:"expected_profit"`
	RequestedPrice          float64      `json:"requested_price"`
	ExecutedPrice           float64      `json:"executed_price"`
	Slippage                float64      `json:"slippage"`
	UnderlyingPriceAtOpen   float64      `json:"underlying_price_at_open"`
	UnderlyingPriceAtExpiry float64      `json:"underlying_price_at_expiry"`
	InTheMoney1             bool         `json:"in_the_money_1"`
	Profit1                 float64      `json:"profit_1"`
	InTheMoney2             bool         `json:"in_the_money_2"`
	Profit2                 float64      `json:"profit_2"`
	Profit                  float64      `json:"profit"`
	IsClosed                bool         `json:"is_closed"`
}
