package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func buildTestChain(strikes []float64, expiration time.Time) *OptionChain {
	var contracts []*OptionContract
	for _, strike := range strikes {
		contracts = append(contracts,
			&OptionContract{Underlying: "SPY", Strike: strike, OptionType: OptionTypePut, Expiration: expiration},
			&OptionContract{Underlying: "SPY", Strike: strike, OptionType: OptionTypeCall, Expiration: expiration},
		)
	}

	return &OptionChain{Underlying: "SPY", Contracts: contracts}
}

func TestOptionChain(t *testing.T) {
	expiration := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	t.Run("puts are sorted ascending by strike", func(t *testing.T) {
		// arrange
		chain := buildTestChain([]float64{470, 460, 465}, expiration)

		// act
		puts := chain.Puts()

		// assert
		assert.Equal(t, 3, len(puts))
		assert.Equal(t, 460.0, puts[0].Strike)
		assert.Equal(t, 465.0, puts[1].Strike)
		assert.Equal(t, 470.0, puts[2].Strike)
	})

	t.Run("strike window trims per side", func(t *testing.T) {
		// arrange
		chain := buildTestChain([]float64{440, 445, 450, 455, 460, 465, 470, 475, 480}, expiration)

		// act
		trimmed := chain.StrikeWindow(462.0, 2)

		// assert
		puts := trimmed.Puts()
		assert.Equal(t, 4, len(puts))
		assert.Equal(t, 455.0, puts[0].Strike)
		assert.Equal(t, 470.0, puts[3].Strike)

		calls := trimmed.Calls()
		assert.Equal(t, 4, len(calls))
	})

	t.Run("find strike within tolerance", func(t *testing.T) {
		// arrange
		chain := buildTestChain([]float64{465, 470}, expiration)

		// act
		found := chain.FindStrike(470.0005, OptionTypePut)
		missing := chain.FindStrike(471, OptionTypePut)

		// assert
		assert.NotNil(t, found)
		assert.Equal(t, 470.0, found.Strike)
		assert.Nil(t, missing)
	})

	t.Run("expiring on filters by calendar day", func(t *testing.T) {
		// arrange
		nextWeek := expiration.AddDate(0, 0, 7)
		chain := &OptionChain{
			Underlying: "SPY",
			Contracts: []*OptionContract{
				{Strike: 470, OptionType: OptionTypePut, Expiration: expiration},
				{Strike: 470, OptionType: OptionTypePut, Expiration: nextWeek},
			},
		}

		// act
		filtered := chain.ExpiringOn(expiration)

		// assert
		assert.Equal(t, 1, len(filtered.Contracts))
		assert.Equal(t, expiration, filtered.Contracts[0].Expiration)
	})
}
