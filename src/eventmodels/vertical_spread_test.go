package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPut(strike, bid, ask float64, expiration time.Time) *OptionContract {
	return &OptionContract{
		Underlying: "SPY",
		Strike:     strike,
		OptionType: OptionTypePut,
		Expiration: expiration,
		Bid:        bid,
		Ask:        ask,
	}
}

func TestVerticalSpread(t *testing.T) {
	expiration := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	t.Run("bull put economics", func(t *testing.T) {
		// arrange
		spread := &VerticalSpread{
			Type:       SpreadTypeBullPut,
			Underlying: "SPY",
			Expiration: expiration,
			ShortLeg:   newTestPut(470, 1.20, 1.30, expiration),
			LongLeg:    newTestPut(465, 0.70, 0.80, expiration),
		}

		// assert
		assert.Equal(t, 5.0, spread.Width())
		assert.InDelta(t, 0.40, spread.Credit(), 1e-9)
		assert.InDelta(t, 0.08, spread.CreditPct(), 1e-9)
		assert.InDelta(t, 40.0, spread.MaxProfit(), 1e-9)
		assert.InDelta(t, 460.0, spread.MaxLoss(), 1e-9)
		assert.InDelta(t, 469.60, spread.Breakeven(), 1e-9)
		assert.NoError(t, spread.Validate())
	})

	t.Run("bear call breakeven sits above the short strike", func(t *testing.T) {
		// arrange
		shortCall := &OptionContract{Strike: 480, OptionType: OptionTypeCall, Expiration: expiration, Bid: 0.90, Ask: 1.00}
		longCall := &OptionContract{Strike: 485, OptionType: OptionTypeCall, Expiration: expiration, Bid: 0.40, Ask: 0.50}

		spread := &VerticalSpread{
			Type:       SpreadTypeBearCall,
			Underlying: "SPY",
			Expiration: expiration,
			ShortLeg:   shortCall,
			LongLeg:    longCall,
		}

		// assert
		assert.Equal(t, 5.0, spread.Width())
		assert.InDelta(t, 0.40, spread.Credit(), 1e-9)
		assert.InDelta(t, 480.40, spread.Breakeven(), 1e-9)
		assert.NoError(t, spread.Validate())
	})

	t.Run("reject mismatched option types", func(t *testing.T) {
		// arrange
		spread := &VerticalSpread{
			Type:       SpreadTypeBullPut,
			Expiration: expiration,
			ShortLeg:   newTestPut(470, 1.20, 1.30, expiration),
			LongLeg:    &OptionContract{Strike: 465, OptionType: OptionTypeCall, Expiration: expiration},
		}

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})

	t.Run("reject mismatched expirations", func(t *testing.T) {
		// arrange
		spread := &VerticalSpread{
			Type:       SpreadTypeBullPut,
			Expiration: expiration,
			ShortLeg:   newTestPut(470, 1.20, 1.30, expiration),
			LongLeg:    newTestPut(465, 0.70, 0.80, expiration.AddDate(0, 0, 7)),
		}

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})

	t.Run("reject an inverted spread", func(t *testing.T) {
		// arrange
		spread := &VerticalSpread{
			Type:       SpreadTypeBullPut,
			Expiration: expiration,
			ShortLeg:   newTestPut(465, 0.70, 0.80, expiration),
			LongLeg:    newTestPut(470, 1.20, 1.30, expiration),
		}

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})
}

func TestDebitToClose(t *testing.T) {
	expiration := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	t.Run("two sided quotes", func(t *testing.T) {
		// arrange
		shortLeg := newTestPut(470, 2.40, 2.50, expiration)
		longLeg := newTestPut(465, 1.10, 1.20, expiration)

		// act
		debit := DebitToClose(shortLeg, longLeg)

		// assert
		assert.InDelta(t, 1.40, debit, 1e-9)
	})

	t.Run("missing short ask falls back to last", func(t *testing.T) {
		// arrange
		shortLeg := newTestPut(470, 2.40, 0, expiration)
		shortLeg.Last = 2.45
		longLeg := newTestPut(465, 1.10, 1.20, expiration)

		// act
		debit := DebitToClose(shortLeg, longLeg)

		// assert
		assert.InDelta(t, 1.35, debit, 1e-9)
	})

	t.Run("missing short ask and last pads the bid", func(t *testing.T) {
		// arrange
		shortLeg := newTestPut(470, 2.00, 0, expiration)
		longLeg := newTestPut(465, 1.10, 1.20, expiration)

		// act
		debit := DebitToClose(shortLeg, longLeg)

		// assert
		assert.InDelta(t, 2.00*1.1-1.10, debit, 1e-9)
	})

	t.Run("missing long bid shaves the ask", func(t *testing.T) {
		// arrange
		shortLeg := newTestPut(470, 2.40, 2.50, expiration)
		longLeg := newTestPut(465, 0, 1.20, expiration)

		// act
		debit := DebitToClose(shortLeg, longLeg)

		// assert
		assert.InDelta(t, 2.50-1.20*0.9, debit, 1e-9)
	})

	t.Run("negative debit flips positive", func(t *testing.T) {
		// arrange
		shortLeg := newTestPut(470, 0.05, 0.10, expiration)
		longLeg := newTestPut(465, 0.50, 0.60, expiration)

		// act
		debit := DebitToClose(shortLeg, longLeg)

		// assert
		assert.InDelta(t, 0.40, debit, 1e-9)
	})
}
