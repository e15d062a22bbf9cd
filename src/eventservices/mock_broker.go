package eventservices

import (
	"fmt"
	"sync"
	"time"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

// MockBroker is an in-memory IBroker used by tests.
type MockBroker struct {
	mutex sync.Mutex

	StockPrice  float64
	Expirations []time.Time
	Chains      map[string]*eventmodels.OptionChain
	Quotes      []eventmodels.OptionQuoteDTO
	Orders      map[uint]*eventmodels.TradierOrder
	Positions   []eventmodels.TradierPositionDTO
	Calendar    *eventmodels.MarketCalendar

	SpreadOrderRequests []eventmodels.PlaceSpreadOrderRequest
	LegOrderRequests    []eventmodels.PlaceLegOrderRequest
	CanceledOrderIDs    []uint

	SpreadOrderErr error
	LegOrderErr    error

	nextOrderID uint
}

func NewMockBroker() *MockBroker {
	return &MockBroker{
		Chains:      make(map[string]*eventmodels.OptionChain),
		Orders:      make(map[uint]*eventmodels.TradierOrder),
		nextOrderID: 1,
	}
}

func (b *MockBroker) FetchQuotes(symbols []string) ([]eventmodels.OptionQuoteDTO, error) {
	return b.Quotes, nil
}

func (b *MockBroker) FetchStockPrice(symbol eventmodels.StockSymbol) (float64, error) {
	return b.StockPrice, nil
}

func (b *MockBroker) FetchOptionExpirations(symbol eventmodels.StockSymbol) ([]time.Time, error) {
	return b.Expirations, nil
}

func (b *MockBroker) FetchOptionChain(symbol eventmodels.StockSymbol, expiration time.Time) (*eventmodels.OptionChain, error) {
	chain, found := b.Chains[expiration.Format("2006-01-02")]
	if !found {
		return nil, fmt.Errorf("MockBroker: no chain for %s", expiration.Format("2006-01-02"))
	}

	return chain, nil
}

func (b *MockBroker) PlaceSpreadOrder(req eventmodels.PlaceSpreadOrderRequest) (uint, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.SpreadOrderErr != nil {
		return 0, b.SpreadOrderErr
	}

	b.SpreadOrderRequests = append(b.SpreadOrderRequests, req)

	orderID := b.nextOrderID
	b.nextOrderID++

	return orderID, nil
}

func (b *MockBroker) PlaceLegOrder(req eventmodels.PlaceLegOrderRequest) (uint, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.LegOrderErr != nil {
		return 0, b.LegOrderErr
	}

	b.LegOrderRequests = append(b.LegOrderRequests, req)

	orderID := b.nextOrderID
	b.nextOrderID++

	return orderID, nil
}

func (b *MockBroker) CancelOrder(orderID uint) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.CanceledOrderIDs = append(b.CanceledOrderIDs, orderID)
	return nil
}

func (b *MockBroker) FetchOrders() ([]*eventmodels.TradierOrder, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	var orders []*eventmodels.TradierOrder
	for _, order := range b.Orders {
		orders = append(orders, order)
	}

	return orders, nil
}

func (b *MockBroker) FetchOrder(orderID uint) (*eventmodels.TradierOrder, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	order, found := b.Orders[orderID]
	if !found {
		return nil, fmt.Errorf("MockBroker: order %d not found", orderID)
	}

	return order, nil
}

func (b *MockBroker) FetchPositions() ([]eventmodels.TradierPositionDTO, error) {
	return b.Positions, nil
}

func (b *MockBroker) FetchBalances() (*eventmodels.FetchTradierBalancesResponseDTO, error) {
	return &eventmodels.FetchTradierBalancesResponseDTO{}, nil
}

func (b *MockBroker) FetchCalendar(now time.Time) (*eventmodels.MarketCalendar, error) {
	return b.Calendar, nil
}

// SetOrder stores an order so FetchOrder and FetchOrders return it.
func (b *MockBroker) SetOrder(order *eventmodels.TradierOrder) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.Orders[order.ID] = order
}
