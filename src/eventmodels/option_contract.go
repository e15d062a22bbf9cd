package eventmodels

import (
	"math"
	"time"
)

type OptionContract struct {
	Symbol       OptionSymbol
	Underlying   StockSymbol
	Description  string
	Strike       float64
	OptionType   OptionType
	Expiration   time.Time
	Bid          float64
	Ask          float64
	Last         float64
	Volume       int
	OpenInterest int
	Delta        float64
	Gamma        float64
	Theta        float64
	Vega         float64
	MidIV        float64
	HasGreeks    bool
}

// AbsDelta returns the magnitude of the contract's delta. Put deltas come
// back negative from the broker, so strategies filter on the absolute value.
func (c *OptionContract) AbsDelta() float64 {
	return math.Abs(c.Delta)
}

func (c *OptionContract) MidPrice() float64 {
	return (c.Bid + c.Ask) / 2.0
}

func (c *OptionContract) HasBid() bool {
	return c.Bid > 0
}

func (c *OptionContract) IsZeroDTE(now time.Time) bool {
	y1, m1, d1 := c.Expiration.Year(), c.Expiration.Month(), c.Expiration.Day()
	y2, m2, d2 := now.In(c.Expiration.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
