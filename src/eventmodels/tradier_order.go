package eventmodels

import (
	"fmt"
	"time"
)

type TradierOrder struct {
	ID                uint                 `json:"id"`
	Type              string               `json:"type"`
	Symbol            string               `json:"symbol"`
	Side              string               `json:"side"`
	Quantity          float64              `json:"quantity"`
	Status            OrderStatus          `json:"status"`
	Duration          string               `json:"duration"`
	Price             float64              `json:"price"`
	AvgFillPrice      float64              `json:"avg_fill_price"`
	ExecQuantity      float64              `json:"exec_quantity"`
	LastFillPrice     float64              `json:"last_fill_price"`
	LastFillQuantity  float64              `json:"last_fill_quantity"`
	RemainingQuantity float64              `json:"remaining_quantity"`
	CreateDate        time.Time            `json:"create_date"`
	TransactionDate   time.Time            `json:"transaction_date"`
	Class             string               `json:"class"`
	Strategy          string               `json:"strategy"`
	OptionSymbol      *string              `json:"option_symbol"`
	Leg               []TradierOrderLegDTO `json:"leg"`
	ReasonDescription *string              `json:"reason_description"`
	Tag               string               `json:"tag"`
}

func (o TradierOrder) String() string {
	var symbol string
	if o.OptionSymbol != nil {
		symbol = *o.OptionSymbol
	} else {
		symbol = o.Symbol
	}

	timestamp := o.CreateDate.Format("2006-01-02 15:04:05")
	return fmt.Sprintf("ID (%d), Type: %s, Symbol: %s, Side: %s, Status: %s, AvgFillPrice: %.2f, ExecQuantity: %.0f, Class: %s, CreatedAt: %v", o.ID, o.Type, symbol, o.Side, o.Status, o.AvgFillPrice, o.ExecQuantity, o.Class, timestamp)
}

// NetFillPremium sums the signed per-share fill prices across the order's
// legs: sells contribute positively, buys negatively. A multileg credit
// spread therefore yields the net credit collected, and a closing order the
// net debit paid (as a negative number).
func (o *TradierOrder) NetFillPremium() float64 {
	var net float64
	for _, leg := range o.Leg {
		switch leg.Side {
		case "sell_to_open", "sell_to_close":
			net += leg.AvgFillPrice
		case "buy_to_open", "buy_to_close":
			net -= leg.AvgFillPrice
		}
	}

	return net
}
