package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

func TestParseTradierResponse(t *testing.T) {
	t.Run("array payload", func(t *testing.T) {
		// arrange
		response := []byte(`{"positions":{"position":[{"symbol":"SPY240621P00470000","quantity":-1},{"symbol":"SPY240621P00465000","quantity":1}]}}`)

		// act
		positions, err := ParseTradierResponse[eventmodels.TradierPositionDTO](response)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 2, len(positions))
		assert.Equal(t, "SPY240621P00470000", positions[0].Symbol)
		assert.Equal(t, -1.0, positions[0].Quantity)
	})

	t.Run("single object payload", func(t *testing.T) {
		// arrange
		response := []byte(`{"positions":{"position":{"symbol":"SPY240621P00470000","quantity":-1}}}`)

		// act
		positions, err := ParseTradierResponse[eventmodels.TradierPositionDTO](response)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 1, len(positions))
	})

	t.Run("null payload", func(t *testing.T) {
		// arrange
		response := []byte(`{"positions":"null"}`)

		// act
		positions, err := ParseTradierResponse[eventmodels.TradierPositionDTO](response)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 0, len(positions))
	})

	t.Run("multiple header keys fail", func(t *testing.T) {
		// arrange
		response := []byte(`{"positions":{},"orders":{}}`)

		// act
		_, err := ParseTradierResponse[eventmodels.TradierPositionDTO](response)

		// assert
		assert.Error(t, err)
	})
}
