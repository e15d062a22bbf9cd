package eventmodels

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradierOrdersDTOParse(t *testing.T) {
	t.Run("empty book collapses to the string null", func(t *testing.T) {
		// arrange
		var dto TradierOrdersDTO
		err := json.Unmarshal([]byte(`{"orders":"null"}`), &dto)
		assert.NoError(t, err)

		// act
		orders, err := dto.Parse()

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 0, len(orders))
	})

	t.Run("single order comes back as a bare object", func(t *testing.T) {
		// arrange
		payload := `{"orders":{"order":{"id":12890162,"class":"multileg","symbol":"SPY","status":"filled","tag":"bull--put--spread---0-20---0-35"}}}`
		var dto TradierOrdersDTO
		err := json.Unmarshal([]byte(payload), &dto)
		assert.NoError(t, err)

		// act
		orders, err := dto.Parse()

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 1, len(orders))
		assert.Equal(t, uint(12890162), orders[0].ID)
		assert.Equal(t, "filled", orders[0].Status)
	})

	t.Run("multiple orders come back as an array", func(t *testing.T) {
		// arrange
		payload := `{"orders":{"order":[{"id":1,"status":"open"},{"id":2,"status":"filled"}]}}`
		var dto TradierOrdersDTO
		err := json.Unmarshal([]byte(payload), &dto)
		assert.NoError(t, err)

		// act
		orders, err := dto.Parse()

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 2, len(orders))
		assert.Equal(t, uint(1), orders[0].ID)
		assert.Equal(t, uint(2), orders[1].ID)
	})

	t.Run("unexpected string payload fails", func(t *testing.T) {
		// arrange
		var dto TradierOrdersDTO
		err := json.Unmarshal([]byte(`{"orders":"oops"}`), &dto)
		assert.NoError(t, err)

		// act
		_, err = dto.Parse()

		// assert
		assert.Error(t, err)
	})
}

func TestNetFillPremium(t *testing.T) {
	t.Run("credit spread open", func(t *testing.T) {
		// arrange
		order := &TradierOrder{
			Leg: []TradierOrderLegDTO{
				{Side: "sell_to_open", AvgFillPrice: 1.05},
				{Side: "buy_to_open", AvgFillPrice: 0.70},
			},
		}

		// act
		net := order.NetFillPremium()

		// assert
		assert.InDelta(t, 0.35, net, 1e-9)
	})

	t.Run("debit close comes back negative", func(t *testing.T) {
		// arrange
		order := &TradierOrder{
			Leg: []TradierOrderLegDTO{
				{Side: "buy_to_close", AvgFillPrice: 0.55},
				{Side: "sell_to_close", AvgFillPrice: 0.25},
			},
		}

		// act
		net := order.NetFillPremium()

		// assert
		assert.InDelta(t, -0.30, net, 1e-9)
	})
}
