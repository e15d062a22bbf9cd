package eventservices

import (
	"fmt"
	"time"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

// IBroker is the surface of the brokerage API the trading loop depends on.
type IBroker interface {
	FetchQuotes(symbols []string) ([]eventmodels.OptionQuoteDTO, error)
	FetchStockPrice(symbol eventmodels.StockSymbol) (float64, error)
	FetchOptionExpirations(symbol eventmodels.StockSymbol) ([]time.Time, error)
	FetchOptionChain(symbol eventmodels.StockSymbol, expiration time.Time) (*eventmodels.OptionChain, error)
	PlaceSpreadOrder(req eventmodels.PlaceSpreadOrderRequest) (uint, error)
	PlaceLegOrder(req eventmodels.PlaceLegOrderRequest) (uint, error)
	CancelOrder(orderID uint) error
	FetchOrders() ([]*eventmodels.TradierOrder, error)
	FetchOrder(orderID uint) (*eventmodels.TradierOrder, error)
	FetchPositions() ([]eventmodels.TradierPositionDTO, error)
	FetchBalances() (*eventmodels.FetchTradierBalancesResponseDTO, error)
	FetchCalendar(now time.Time) (*eventmodels.MarketCalendar, error)
}

// TradierBroker implements IBroker against the Tradier REST API.
type TradierBroker struct {
	quotesURL      string
	expirationsURL string
	chainURL       string
	calendarURL    string
	ordersURL      string
	positionsURL   string
	balancesURL    string
	bearerToken    string
	dryRun         bool
}

func NewTradierBroker(baseURL, accountID, bearerToken string, dryRun bool) *TradierBroker {
	return &TradierBroker{
		quotesURL:      fmt.Sprintf("%s/markets/quotes", baseURL),
		expirationsURL: fmt.Sprintf("%s/markets/options/expirations", baseURL),
		chainURL:       fmt.Sprintf("%s/markets/options/chains", baseURL),
		calendarURL:    fmt.Sprintf("%s/markets/calendar", baseURL),
		ordersURL:      fmt.Sprintf("%s/accounts/%s/orders", baseURL, accountID),
		positionsURL:   fmt.Sprintf("%s/accounts/%s/positions", baseURL, accountID),
		balancesURL:    fmt.Sprintf("%s/accounts/%s/balances", baseURL, accountID),
		bearerToken:    bearerToken,
		dryRun:         dryRun,
	}
}

func (b *TradierBroker) FetchQuotes(symbols []string) ([]eventmodels.OptionQuoteDTO, error) {
	return FetchTradierQuotes(b.quotesURL, b.bearerToken, symbols)
}

func (b *TradierBroker) FetchStockPrice(symbol eventmodels.StockSymbol) (float64, error) {
	return FetchStockPrice(b.quotesURL, b.bearerToken, symbol)
}

func (b *TradierBroker) FetchOptionExpirations(symbol eventmodels.StockSymbol) ([]time.Time, error) {
	return FetchOptionExpirations(b.expirationsURL, b.bearerToken, symbol)
}

func (b *TradierBroker) FetchOptionChain(symbol eventmodels.StockSymbol, expiration time.Time) (*eventmodels.OptionChain, error) {
	return FetchOptionChain(b.chainURL, b.bearerToken, symbol, expiration, true)
}

func (b *TradierBroker) PlaceSpreadOrder(req eventmodels.PlaceSpreadOrderRequest) (uint, error) {
	executer := eventmodels.NewTradierOrderExecuter(b.ordersURL, b.bearerToken, b.dryRun)
	return PlaceSpreadOrder(executer, req)
}

func (b *TradierBroker) PlaceLegOrder(req eventmodels.PlaceLegOrderRequest) (uint, error) {
	executer := eventmodels.NewTradierOrderExecuter(b.ordersURL, b.bearerToken, b.dryRun)
	return PlaceLegOrder(executer, req)
}

func (b *TradierBroker) CancelOrder(orderID uint) error {
	return CancelTradierOrder(b.ordersURL, b.bearerToken, orderID)
}

func (b *TradierBroker) FetchOrders() ([]*eventmodels.TradierOrder, error) {
	return FetchTradierOrders(b.ordersURL, b.bearerToken)
}

func (b *TradierBroker) FetchOrder(orderID uint) (*eventmodels.TradierOrder, error) {
	return FetchTradierOrder(b.ordersURL, b.bearerToken, orderID)
}

func (b *TradierBroker) FetchPositions() ([]eventmodels.TradierPositionDTO, error) {
	return FetchTradierPositions(b.positionsURL, b.bearerToken)
}

func (b *TradierBroker) FetchBalances() (*eventmodels.FetchTradierBalancesResponseDTO, error) {
	return FetchTradierBalances(b.balancesURL, b.bearerToken)
}

func (b *TradierBroker) FetchCalendar(now time.Time) (*eventmodels.MarketCalendar, error) {
	return FetchMarketCalendar(b.calendarURL, b.bearerToken, now)
}
