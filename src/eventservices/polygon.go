package eventservices

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

type PolygonCandleFetcher struct {
	Client *polygon.Client
}

func NewPolygonCandleFetcher(apiKey string) *PolygonCandleFetcher {
	return &PolygonCandleFetcher{
		Client: polygon.New(apiKey),
	}
}

func (f *PolygonCandleFetcher) fetchAggs(ctx context.Context, ticker string, multiplier int, timespan models.Timespan, from, to time.Time) ([]*eventmodels.CandleDTO, error) {
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Asc).WithAdjusted(false)

	iter := f.Client.ListAggs(ctx, params)

	var candles []*eventmodels.CandleDTO
	for iter.Next() {
		dto := eventmodels.PolygonCandleDTO{
			Volume:    iter.Item().Volume,
			Open:      iter.Item().Open,
			Close:     iter.Item().Close,
			High:      iter.Item().High,
			Low:       iter.Item().Low,
			Timestamp: time.Time(iter.Item().Timestamp).UnixMilli(),
			Vwap:      iter.Item().VWAP,
		}

		candles = append(candles, dto.ToCandleDTO())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetchAggs: failed to fetch aggregates for %s: %w", ticker, err)
	}

	log.Debugf("fetchAggs: fetched %d candles for %s", len(candles), ticker)

	return candles, nil
}

// FetchStockCandles loads aggregate bars for an equity ticker.
func (f *PolygonCandleFetcher) FetchStockCandles(ctx context.Context, symbol eventmodels.StockSymbol, multiplier int, timespan models.Timespan, from, to time.Time) ([]*eventmodels.CandleDTO, error) {
	return f.fetchAggs(ctx, symbol.String(), multiplier, timespan, from, to)
}

// FetchIndexCandles loads aggregate bars for an index, which polygon prefixes
// with "I:".
func (f *PolygonCandleFetcher) FetchIndexCandles(ctx context.Context, symbol eventmodels.StockSymbol, multiplier int, timespan models.Timespan, from, to time.Time) ([]*eventmodels.CandleDTO, error) {
	return f.fetchAggs(ctx, fmt.Sprintf("I:%s", symbol.String()), multiplier, timespan, from, to)
}
