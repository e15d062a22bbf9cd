package strategy

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/utils"
)

const traderCalendarFixture = `{
	"calendar": {
		"month": 6,
		"year": 2024,
		"days": {
			"day": [
				{
					"date": "2024-06-20",
					"status": "closed",
					"description": "Market is closed"
				},
				{
					"date": "2024-06-21",
					"status": "open",
					"description": "Market is open",
					"open": {
						"start": "09:30",
						"end": "16:00"
					}
				}
			]
		}
	}
}`

func newTestTrader(t *testing.T) (*Trader, *eventservices.MockBroker) {
	t.Helper()

	var calendar eventmodels.MarketCalendar
	err := json.Unmarshal([]byte(traderCalendarFixture), &calendar)
	assert.NoError(t, err)

	broker := eventservices.NewMockBroker()
	broker.Calendar = &calendar
	broker.StockPrice = 470.0
	broker.Expirations = []time.Time{time.Date(2024, 6, 21, 0, 0, 0, 0, utils.NewYork())}
	broker.Chains["2024-06-21"] = &eventmodels.OptionChain{
		Underlying: "SPY",
		Contracts: []*eventmodels.OptionContract{
			fixturePut(440, -0.05, 0.30, 0.40),
			fixturePut(445, -0.10, 0.55, 0.65),
			fixturePut(450, -0.14, 1.70, 1.80),
			fixturePut(455, -0.22, 2.40, 2.50),
			fixturePut(460, -0.35, 3.50, 3.60),
		},
	}

	config := newSelectorConfig()
	executor := newTestExecutor(broker)

	var wg sync.WaitGroup
	return NewTrader(&wg, broker, config, executor, time.Minute), broker
}

func tradingDayAt(hour, minute int) time.Time {
	return time.Date(2024, 6, 21, hour, minute, 0, 0, utils.NewYork())
}

func TestTickGating(t *testing.T) {
	t.Run("does nothing on a closed day", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)

		// act
		err := trader.Tick(time.Date(2024, 6, 20, 10, 30, 0, 0, utils.NewYork()))

		// assert
		assert.NoError(t, err)
		assert.Empty(t, broker.SpreadOrderRequests)
	})

	t.Run("does nothing outside market hours", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)

		// act
		err := trader.Tick(tradingDayAt(8, 0))

		// assert
		assert.NoError(t, err)
		assert.Empty(t, broker.SpreadOrderRequests)
	})

	t.Run("waits for the entry time", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)

		// act
		err := trader.Tick(tradingDayAt(9, 45))

		// assert
		assert.NoError(t, err)
		assert.Empty(t, broker.SpreadOrderRequests)
	})

	t.Run("opens a single spread after the entry time", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)

		// act
		err := trader.Tick(tradingDayAt(10, 5))

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 1, len(broker.SpreadOrderRequests))
		assert.Equal(t, eventmodels.TradierTradeTypeCredit, broker.SpreadOrderRequests[0].TradeType)
		assert.True(t, trader.Executor().IsPendingOpen())

		// a working order holds the next tick off
		err = trader.Tick(tradingDayAt(10, 6))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(broker.SpreadOrderRequests))
	})

	t.Run("skips the day once the entry window has passed", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)

		// act
		err := trader.Tick(tradingDayAt(15, 35))

		// assert
		assert.NoError(t, err)
		assert.Empty(t, broker.SpreadOrderRequests)
	})
}

func TestTickManagesPosition(t *testing.T) {
	t.Run("closes at the profit target", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		assert.NoError(t, trader.Tick(tradingDayAt(9, 0)))
		openFilledPosition(t, trader.Executor(), broker)

		broker.Chains["2024-06-21"] = &eventmodels.OptionChain{
			Underlying: "SPY",
			Contracts: []*eventmodels.OptionContract{
				fixturePut(450, -0.05, 0.30, 0.40),
				fixturePut(445, -0.02, 0.05, 0.08),
			},
		}

		// act
		err := trader.Tick(tradingDayAt(11, 0))

		// assert
		assert.NoError(t, err)
		assert.True(t, trader.Executor().IsPendingClose())

		req := broker.SpreadOrderRequests[len(broker.SpreadOrderRequests)-1]
		assert.Equal(t, eventmodels.TradierTradeTypeDebit, req.TradeType)
		assert.InDelta(t, 0.35, req.Price, 1e-9)
	})

	t.Run("holds while the mark sits between the exit levels", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		assert.NoError(t, trader.Tick(tradingDayAt(9, 0)))
		openFilledPosition(t, trader.Executor(), broker)

		broker.Chains["2024-06-21"] = &eventmodels.OptionChain{
			Underlying: "SPY",
			Contracts: []*eventmodels.OptionContract{
				fixturePut(450, -0.14, 0.90, 1.00),
				fixturePut(445, -0.08, 0.10, 0.15),
			},
		}
		placed := len(broker.SpreadOrderRequests)

		// act
		err := trader.Tick(tradingDayAt(11, 0))

		// assert
		assert.NoError(t, err)
		assert.False(t, trader.Executor().IsPendingClose())
		assert.Equal(t, placed, len(broker.SpreadOrderRequests))
	})

	t.Run("unwinds into the end-of-day window", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		assert.NoError(t, trader.Tick(tradingDayAt(9, 0)))
		openFilledPosition(t, trader.Executor(), broker)

		broker.Chains["2024-06-21"] = &eventmodels.OptionChain{
			Underlying: "SPY",
			Contracts: []*eventmodels.OptionContract{
				fixturePut(450, -0.14, 0.90, 1.00),
				fixturePut(445, -0.08, 0.10, 0.15),
			},
		}

		// act
		err := trader.Tick(tradingDayAt(15, 35))

		// assert
		assert.NoError(t, err)
		assert.True(t, trader.Executor().IsPendingClose())

		req := broker.SpreadOrderRequests[len(broker.SpreadOrderRequests)-1]
		assert.Equal(t, eventmodels.TradierTradeTypeDebit, req.TradeType)
		assert.InDelta(t, 0.90, req.Price, 1e-9)
	})

	t.Run("force closes at the market near the bell", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		assert.NoError(t, trader.Tick(tradingDayAt(9, 0)))
		openFilledPosition(t, trader.Executor(), broker)

		// act
		err := trader.Tick(tradingDayAt(15, 50))

		// assert
		assert.NoError(t, err)
		assert.True(t, trader.Executor().IsPendingClose())

		req := broker.SpreadOrderRequests[len(broker.SpreadOrderRequests)-1]
		assert.Equal(t, eventmodels.TradierTradeTypeMarket, req.TradeType)
	})

	t.Run("force close cancels a working close order first", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		assert.NoError(t, trader.Tick(tradingDayAt(9, 0)))
		openFilledPosition(t, trader.Executor(), broker)

		broker.Chains["2024-06-21"] = &eventmodels.OptionChain{
			Underlying: "SPY",
			Contracts: []*eventmodels.OptionContract{
				fixturePut(450, -0.14, 0.90, 1.00),
				fixturePut(445, -0.08, 0.10, 0.15),
			},
		}
		assert.NoError(t, trader.Tick(tradingDayAt(15, 35)))
		workingOrderID := trader.Executor().Position().CloseOrderID

		// act
		err := trader.Tick(tradingDayAt(15, 50))

		// assert
		assert.NoError(t, err)
		assert.Equal(t, []uint{workingOrderID}, broker.CanceledOrderIDs)
		assert.Equal(t, eventmodels.TradierTradeTypeMarket, broker.SpreadOrderRequests[len(broker.SpreadOrderRequests)-1].TradeType)
	})
}

func TestTickSweepsLeftoverLegs(t *testing.T) {
	t.Run("market closes untracked legs once after the cutoff", func(t *testing.T) {
		// arrange
		trader, broker := newTestTrader(t)
		broker.Positions = []eventmodels.TradierPositionDTO{
			{ID: 1, Symbol: "SPY240621P00450000", Quantity: -1, DateAcquired: "2024-06-21T10:05:00Z"},
		}

		// act
		err := trader.Tick(tradingDayAt(15, 50))

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 1, len(broker.LegOrderRequests))
		assert.Equal(t, "buy_to_close", broker.LegOrderRequests[0].Side)
		assert.Equal(t, eventmodels.TradierTradeTypeMarket, broker.LegOrderRequests[0].TradeType)

		// the sweep runs once per day
		err = trader.Tick(tradingDayAt(15, 51))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(broker.LegOrderRequests))
	})
}
