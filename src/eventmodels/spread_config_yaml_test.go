package eventmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestSpreadConfigYAML(t *testing.T) {
	t.Run("defaults fill a minimal config", func(t *testing.T) {
		// arrange
		spread := SpreadYAML{Symbol: "SPY"}

		// act
		spread.ApplyDefaults()

		// assert
		assert.NoError(t, spread.Validate())
		assert.Equal(t, string(SpreadTypeBullPut), spread.SpreadType)
		assert.Equal(t, 1, spread.Quantity)
		assert.Equal(t, string(DeltaModeMax), spread.DeltaMode)
		assert.Equal(t, 0.15, spread.TargetDelta)
		assert.Equal(t, 0.30, spread.MaxDelta)
		assert.Equal(t, []float64{5.0, 4.0, 3.0, 2.0, 1.0}, spread.WidthFallbacks)
		assert.Equal(t, 0.20, spread.MinCreditPct)
		assert.Equal(t, 0.15, spread.FallbackCreditPct)
		assert.Equal(t, 2.0, spread.StopLossMultiple)
		assert.Equal(t, 0.50, spread.ProfitTargetPct)
		assert.Equal(t, "10:00", spread.EntryTime)
		assert.Equal(t, 30, spread.CloseBufferMinutes)
		assert.Equal(t, 15, spread.ForceCloseBufferMinutes)
	})

	t.Run("parse a yaml document", func(t *testing.T) {
		// arrange
		doc := `
spreads:
  - symbol: SPY
    spreadType: bull_put
    deltaMode: exact
    targetDelta: 0.2
    maxDelta: 0.35
    widthFallbacks: [3, 2]
  - symbol: QQQ
    spreadType: bear_call
`

		// act
		var config SpreadsConfigYAML
		err := yaml.Unmarshal([]byte(doc), &config)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 2, len(config.Spreads))
		assert.Equal(t, "exact", config.Spreads[0].DeltaMode)
		assert.Equal(t, 0.2, config.Spreads[0].TargetDelta)
		assert.Equal(t, []float64{3, 2}, config.Spreads[0].WidthFallbacks)
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		// arrange
		config := SpreadsConfigYAML{Spreads: []SpreadYAML{{Symbol: "SPY"}}}

		// act
		spread, err := config.GetSpread("spy")

		// assert
		assert.NoError(t, err)
		assert.Equal(t, "SPY", spread.Symbol)
	})

	t.Run("lookup fails for unknown symbol", func(t *testing.T) {
		// arrange
		config := SpreadsConfigYAML{Spreads: []SpreadYAML{{Symbol: "SPY"}}}

		// act
		_, err := config.GetSpread("IWM")

		// assert
		assert.Error(t, err)
	})

	t.Run("range delta mode requires minDelta", func(t *testing.T) {
		// arrange
		spread := SpreadYAML{Symbol: "SPY", DeltaMode: string(DeltaModeRange)}
		spread.ApplyDefaults()

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})

	t.Run("fallback credit pct cannot exceed min credit pct", func(t *testing.T) {
		// arrange
		spread := SpreadYAML{Symbol: "SPY", MinCreditPct: 0.10, FallbackCreditPct: 0.25}
		spread.ApplyDefaults()

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})

	t.Run("force close buffer cannot exceed close buffer", func(t *testing.T) {
		// arrange
		spread := SpreadYAML{Symbol: "SPY", CloseBufferMinutes: 10, ForceCloseBufferMinutes: 20}
		spread.ApplyDefaults()

		// act
		err := spread.Validate()

		// assert
		assert.Error(t, err)
	})
}
