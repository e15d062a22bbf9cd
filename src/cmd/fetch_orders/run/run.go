package run

import (
	"context"
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/utils"
)

type RunArgs struct {
	OrderIDs []int
	GoEnv    string
	OutDir   string
}

type RunResult struct {
	Orders []*eventmodels.OptionOrderSpreadResult
}

// options on these underlyings settle against an index, whose bars polygon
// serves under the I: prefix
var indexUnderlyings = map[string]struct{}{
	"SPX": {},
	"XSP": {},
	"NDX": {},
	"RUT": {},
	"VIX": {},
}

func isIndexSymbol(symbol string) bool {
	_, found := indexUnderlyings[symbol]
	return found
}

func minTime(a, b time.Time) time.Time {
	if a.IsZero() || (!b.IsZero() && b.Before(a)) {
		return b
	}

	return a
}

func maxTime(a, b time.Time) time.Time {
	if a.IsZero() || (!b.IsZero() && b.After(a)) {
		return b
	}

	return a
}

func Run(ctx context.Context, args RunArgs) (RunResult, error) {
	projectsDir, err := utils.GetEnv("PROJECTS_DIR")
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: PROJECTS_DIR not set: %w", err)
	}

	if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to load environment variables: %w", err)
	}

	baseURL, err := utils.GetEnv("TRADIER_BASE_URL")
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: $TRADIER_BASE_URL not set: %w", err)
	}

	accountID, err := utils.GetEnv("TRADIER_TRADES_ACCOUNT_ID")
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: $TRADIER_TRADES_ACCOUNT_ID not set: %w", err)
	}

	bearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: $TRADIER_BEARER_TOKEN not set: %w", err)
	}

	polygonAPIKey, err := utils.GetEnv("POLYGON_API_KEY")
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: $POLYGON_API_KEY not set: %w", err)
	}

	ordersURL := fmt.Sprintf("%s/accounts/%s/orders", baseURL, accountID)
	fetcher := eventservices.NewPolygonCandleFetcher(polygonAPIKey)

	var tradierOrders []*eventmodels.TradierOrder
	indexSymbols := make(map[eventmodels.StockSymbol]struct{})
	var startDate, endDate time.Time

	for _, orderID := range args.OrderIDs {
		order, err := eventservices.FetchTradierOrder(ordersURL, bearerToken, uint(orderID))
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to fetch order %d: %w", orderID, err)
		}

		if !order.Status.IsFilled() {
			log.Warnf("Run: skipping order %d with status %s", orderID, order.Status)
			continue
		}

		if len(order.Leg) < 2 {
			log.Warnf("Run: skipping order %d, not a spread", orderID)
			continue
		}

		if isIndexSymbol(order.Symbol) {
			indexSymbols[eventmodels.StockSymbol(order.Symbol)] = struct{}{}
		}

		option, err := eventmodels.NewOptionSymbolComponents(eventmodels.OptionSymbol(order.Leg[0].OptionSymbol))
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to parse option ticker: %w", err)
		}

		startDate = minTime(startDate, minTime(order.CreateDate, option.Expiration))
		endDate = maxTime(endDate, maxTime(order.CreateDate, option.Expiration))

		tradierOrders = append(tradierOrders, order)
	}

	indexCandles := make(map[eventmodels.StockSymbol][]*eventmodels.CandleDTO)
	for symbol := range indexSymbols {
		log.Infof("Run: fetching index candles for %v", symbol)

		candles, err := fetcher.FetchIndexCandles(ctx, symbol, 15, models.Minute, startDate, endDate.AddDate(0, 0, 1))
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to fetch index candles for %v: %w", symbol, err)
		}

		indexCandles[symbol] = candles
	}

	now := time.Now()
	var resultOrders []*eventmodels.OptionOrderSpreadResult

	for _, order := range tradierOrders {
		option, err := eventmodels.NewOptionSymbolComponents(eventmodels.OptionSymbol(order.Leg[0].OptionSymbol))
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to parse option ticker: %w", err)
		}

		if option.Expiration.After(now) {
			log.Warnf("Run: skipping order %d, options expire %s", order.ID, option.Expiration.Format("2006-01-02"))
			continue
		}

		var candles []*eventmodels.CandleDTO

		if isIndexSymbol(order.Symbol) {
			candles = indexCandles[eventmodels.StockSymbol(order.Symbol)]
		} else {
			symbol := eventmodels.StockSymbol(order.Symbol)

			openCandles, err := fetcher.FetchStockCandles(ctx, symbol, 1, models.Minute, order.CreateDate.Add(-5*time.Minute), order.CreateDate)
			if err != nil {
				return RunResult{}, fmt.Errorf("Run: failed to fetch candles at open for %v: %w", symbol, err)
			}

			candles = append(candles, openCandles...)

			expiryCandles, err := fetcher.FetchStockCandles(ctx, symbol, 1, models.Minute, option.Expiration.Add(-5*time.Minute), option.Expiration)
			if err != nil {
				return RunResult{}, fmt.Errorf("Run: failed to fetch candles at expiry for %v: %w", symbol, err)
			}

			candles = append(candles, expiryCandles...)
		}

		optionMultiplier := 100.0

		result, err := utils.CalculateOptionOrderSpreadResult(eventmodels.OptionSpreadAnalysisRequest{
			ID:         order.ID,
			Underlying: eventmodels.StockSymbol(order.Symbol),
			Tag:        order.Tag,
			Leg1: eventmodels.OptionSpreadLeg{
				ID:           order.Leg[0].ID,
				Symbol:       eventmodels.OptionSymbol(order.Leg[0].OptionSymbol),
				Side:         order.Leg[0].Side,
				Quantity:     order.Leg[0].Quantity,
				AvgFillPrice: order.Leg[0].AvgFillPrice,
			},
			Leg2: eventmodels.OptionSpreadLeg{
				ID:           order.Leg[1].ID,
				Symbol:       eventmodels.OptionSymbol(order.Leg[1].OptionSymbol),
				Side:         order.Leg[1].Side,
				Quantity:     order.Leg[1].Quantity,
				AvgFillPrice: order.Leg[1].AvgFillPrice,
			},
			CreateDate:    order.CreateDate,
			AvgFillPrice:  order.AvgFillPrice,
			ExecutionType: "market",
		}, candles, optionMultiplier)

		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to calculate spread result for order %d: %w", order.ID, err)
		}

		resultOrders = append(resultOrders, result)
	}

	return RunResult{Orders: resultOrders}, nil
}
