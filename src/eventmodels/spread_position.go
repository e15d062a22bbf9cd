package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

// SpreadPosition is the locally-tracked record of an open credit spread. The
// broker only knows about two option legs; the pairing, open credit, and exit
// levels live here.
type SpreadPosition struct {
	ID                uuid.UUID
	Type              SpreadType
	Underlying        StockSymbol
	ShortSymbol       OptionSymbol
	LongSymbol        OptionSymbol
	ShortStrike       float64
	LongStrike        float64
	Expiration        time.Time
	Quantity          int
	OpenCredit        float64
	StopLossDebit     float64
	ProfitTargetDebit float64
	OpenOrderID       uint
	CloseOrderID      uint
	Tag               string
	OpenedAt          time.Time
}

func (p *SpreadPosition) Width() float64 {
	if p.Type == SpreadTypeBearCall {
		return p.LongStrike - p.ShortStrike
	}

	return p.ShortStrike - p.LongStrike
}

func (p *SpreadPosition) MaxProfit() float64 {
	return p.OpenCredit * 100.0 * float64(p.Quantity)
}

func (p *SpreadPosition) MaxLoss() float64 {
	return (p.Width() - p.OpenCredit) * 100.0 * float64(p.Quantity)
}

func (p *SpreadPosition) Breakeven() float64 {
	if p.Type == SpreadTypeBearCall {
		return p.ShortStrike + p.OpenCredit
	}

	return p.ShortStrike - p.OpenCredit
}
