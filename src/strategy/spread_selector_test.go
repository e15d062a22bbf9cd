package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

var testExpiration = time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

func newSelectorConfig() *eventmodels.SpreadYAML {
	config := &eventmodels.SpreadYAML{
		Symbol:     "SPY",
		SpreadType: string(eventmodels.SpreadTypeBullPut),
		WidthMode:  string(eventmodels.WidthModeRange),
	}
	config.ApplyDefaults()

	return config
}

func fixturePut(strike, delta, bid, ask float64) *eventmodels.OptionContract {
	return &eventmodels.OptionContract{
		Underlying: "SPY",
		Strike:     strike,
		OptionType: eventmodels.OptionTypePut,
		Expiration: testExpiration,
		Bid:        bid,
		Ask:        ask,
		Delta:      delta,
		HasGreeks:  true,
	}
}

func fixtureCall(strike, bid, ask float64) *eventmodels.OptionContract {
	return &eventmodels.OptionContract{
		Underlying: "SPY",
		Strike:     strike,
		OptionType: eventmodels.OptionTypeCall,
		Expiration: testExpiration,
		Bid:        bid,
		Ask:        ask,
	}
}

func fixtureUniverse(price float64, contracts ...*eventmodels.OptionContract) *Universe {
	return &Universe{
		Chain:           &eventmodels.OptionChain{Underlying: "SPY", Contracts: contracts},
		UnderlyingPrice: price,
		Expiration:      testExpiration,
		IsZeroDTE:       true,
	}
}

func TestSelectBullPutSpread(t *testing.T) {
	t.Run("picks the short strike closest to the target delta", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(440, -0.05, 0.30, 0.40),
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 1.70, 1.80),
			fixturePut(455, -0.22, 2.40, 2.50),
			fixturePut(460, -0.35, 3.50, 3.60),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 450.0, spread.ShortLeg.Strike)
		assert.Equal(t, 445.0, spread.LongLeg.Strike)
		assert.InDelta(t, 1.05, spread.Credit(), 1e-9)
		assert.NoError(t, spread.Validate())
	})

	t.Run("uses the fallback credit bucket when no spread clears the preferred one", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 1.45, 1.55),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 450.0, spread.ShortLeg.Strike)
		// 0.80 credit on a 5 wide spread is 16%: below the 20% preferred
		// threshold but above the 15% fallback
		assert.InDelta(t, 0.80, spread.Credit(), 1e-9)
	})

	t.Run("skips a short strike with no bid", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 0, 1.30),
			fixturePut(455, -0.22, 2.40, 2.50),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 455.0, spread.ShortLeg.Strike)
		assert.Equal(t, 450.0, spread.LongLeg.Strike)
	})

	t.Run("falls back to narrower widths when the full width is unavailable", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(448, -0.10, 0.55, 0.60),
			fixturePut(450, -0.14, 1.20, 1.30),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 450.0, spread.ShortLeg.Strike)
		assert.Equal(t, 448.0, spread.LongLeg.Strike)
		assert.InDelta(t, 2.0, spread.Width(), 1e-9)
	})

	t.Run("exact delta mode rejects strikes away from the target", func(t *testing.T) {
		// arrange
		config := newSelectorConfig()
		config.DeltaMode = string(eventmodels.DeltaModeExact)
		config.TargetDelta = 0.15

		universe := fixtureUniverse(470,
			fixturePut(440, -0.05, 0.30, 0.40),
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 1.70, 1.80),
			fixturePut(455, -0.25, 2.40, 2.50),
		)
		selector := NewSpreadSelector(config)

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 450.0, spread.ShortLeg.Strike)
	})

	t.Run("range delta mode excludes strikes below the floor", func(t *testing.T) {
		// arrange
		minDelta := 0.12
		config := newSelectorConfig()
		config.DeltaMode = string(eventmodels.DeltaModeRange)
		config.MinDelta = &minDelta

		universe := fixtureUniverse(470,
			fixturePut(440, -0.05, 0.30, 0.40),
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 1.70, 1.80),
		)
		selector := NewSpreadSelector(config)

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 450.0, spread.ShortLeg.Strike)
		assert.Equal(t, 445.0, spread.LongLeg.Strike)
	})

	t.Run("errors when no spread clears the fallback bucket", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 0.90, 1.00),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		_, err := selector.SelectSpread(universe)

		// assert
		assert.Error(t, err)
	})

	t.Run("errors when no put matches the delta criteria", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(470,
			fixturePut(460, -0.45, 3.50, 3.60),
		)
		selector := NewSpreadSelector(newSelectorConfig())

		// act
		_, err := selector.SelectSpread(universe)

		// assert
		assert.Error(t, err)
	})
}

func TestSelectBearCallSpread(t *testing.T) {
	newBearCallConfig := func() *eventmodels.SpreadYAML {
		config := &eventmodels.SpreadYAML{
			Symbol:     "SPY",
			SpreadType: string(eventmodels.SpreadTypeBearCall),
		}
		config.ApplyDefaults()

		return config
	}

	t.Run("sells the first out of the money call", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(472,
			fixtureCall(470, 3.10, 3.20),
			fixtureCall(475, 0.90, 1.00),
			fixtureCall(480, 0.40, 0.50),
		)
		selector := NewSpreadSelector(newBearCallConfig())

		// act
		spread, err := selector.SelectSpread(universe)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, eventmodels.SpreadTypeBearCall, spread.Type)
		assert.Equal(t, 475.0, spread.ShortLeg.Strike)
		assert.Equal(t, 480.0, spread.LongLeg.Strike)
		assert.InDelta(t, 0.40, spread.Credit(), 1e-9)
	})

	t.Run("errors when no strike sits above the underlying", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(490,
			fixtureCall(470, 3.10, 3.20),
			fixtureCall(475, 0.90, 1.00),
		)
		selector := NewSpreadSelector(newBearCallConfig())

		// act
		_, err := selector.SelectSpread(universe)

		// assert
		assert.Error(t, err)
	})

	t.Run("errors when the short call is the last listed strike", func(t *testing.T) {
		// arrange
		universe := fixtureUniverse(472,
			fixtureCall(470, 3.10, 3.20),
			fixtureCall(475, 0.90, 1.00),
		)
		selector := NewSpreadSelector(newBearCallConfig())

		// act
		_, err := selector.SelectSpread(universe)

		// assert
		assert.Error(t, err)
	})
}
