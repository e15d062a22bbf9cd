package eventmodels

import (
	"fmt"
	"math"
	"time"
)

// VerticalSpread pairs a short and a long contract of the same type and
// expiration. The short leg is the one sold to open.
type VerticalSpread struct {
	Type       SpreadType
	Underlying StockSymbol
	Expiration time.Time
	ShortLeg   *OptionContract
	LongLeg    *OptionContract
}

func (s *VerticalSpread) Width() float64 {
	if s.Type == SpreadTypeBearCall {
		return s.LongLeg.Strike - s.ShortLeg.Strike
	}

	return s.ShortLeg.Strike - s.LongLeg.Strike
}

// Credit returns the net premium collected at open: the short leg is sold at
// the bid and the long leg bought at the ask.
func (s *VerticalSpread) Credit() float64 {
	return s.ShortLeg.Bid - s.LongLeg.Ask
}

// CreditPct is the credit as a fraction of the spread width.
func (s *VerticalSpread) CreditPct() float64 {
	width := s.Width()
	if width <= 0 {
		return 0
	}

	return s.Credit() / width
}

func (s *VerticalSpread) MaxProfit() float64 {
	return s.Credit() * 100.0
}

func (s *VerticalSpread) MaxLoss() float64 {
	return (s.Width() - s.Credit()) * 100.0
}

func (s *VerticalSpread) Breakeven() float64 {
	if s.Type == SpreadTypeBearCall {
		return s.ShortLeg.Strike + s.Credit()
	}

	return s.ShortLeg.Strike - s.Credit()
}

func (s *VerticalSpread) Validate() error {
	if err := s.Type.Validate(); err != nil {
		return fmt.Errorf("VerticalSpread.Validate: %w", err)
	}

	if s.ShortLeg == nil || s.LongLeg == nil {
		return fmt.Errorf("VerticalSpread.Validate: both legs are required")
	}

	if s.ShortLeg.OptionType != s.LongLeg.OptionType {
		return fmt.Errorf("VerticalSpread.Validate: legs must share an option type, got %s and %s", s.ShortLeg.OptionType, s.LongLeg.OptionType)
	}

	if s.ShortLeg.OptionType != s.Type.ShortOptionType() {
		return fmt.Errorf("VerticalSpread.Validate: %s spread requires %s legs, got %s", s.Type, s.Type.ShortOptionType(), s.ShortLeg.OptionType)
	}

	if !s.ShortLeg.Expiration.Equal(s.LongLeg.Expiration) {
		return fmt.Errorf("VerticalSpread.Validate: legs must share an expiration, got %v and %v", s.ShortLeg.Expiration, s.LongLeg.Expiration)
	}

	if s.Width() <= 0 {
		return fmt.Errorf("VerticalSpread.Validate: invalid width %.2f for %s spread", s.Width(), s.Type)
	}

	return nil
}

// DebitToClose returns the cost of unwinding a spread at the given quotes:
// buying back the short leg at the ask and selling the long leg at the bid.
// Zero-DTE quotes go one-sided near the close, so a zero ask falls back to
// the last traded price, then to the bid padded 10% up; a zero bid falls
// back to last, then to the ask shaved 10% down.
func DebitToClose(shortLeg, longLeg *OptionContract) float64 {
	shortAsk := shortLeg.Ask
	if shortAsk == 0 {
		if shortLeg.Last > 0 {
			shortAsk = shortLeg.Last
		} else if shortLeg.Bid > 0 {
			shortAsk = shortLeg.Bid * 1.1
		}
	}

	longBid := longLeg.Bid
	if longBid == 0 {
		if longLeg.Last > 0 {
			longBid = longLeg.Last
		} else if longLeg.Ask > 0 {
			longBid = longLeg.Ask * 0.9
		}
	}

	debit := shortAsk - longBid
	if debit < 0 {
		debit = math.Abs(debit)
	}

	return debit
}
