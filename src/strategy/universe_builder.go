package strategy

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/utils"
)

// UniverseBuilder loads the day's tradable option chain: same-day expiry when
// one is listed, otherwise the nearest expiration within the configured
// horizon, trimmed to a strike window around the underlying.
type UniverseBuilder struct {
	broker eventservices.IBroker
	config *eventmodels.SpreadYAML
}

func NewUniverseBuilder(broker eventservices.IBroker, config *eventmodels.SpreadYAML) *UniverseBuilder {
	return &UniverseBuilder{
		broker: broker,
		config: config,
	}
}

type Universe struct {
	Chain           *eventmodels.OptionChain
	UnderlyingPrice float64
	Expiration      time.Time
	IsZeroDTE       bool
}

// SelectExpiration picks the target expiration: today's date if listed, else
// the nearest future expiration no more than maxDTE days out.
func (b *UniverseBuilder) SelectExpiration(expirations []time.Time, now time.Time) (time.Time, error) {
	nowET := now.In(utils.NewYork())

	for _, expiration := range expirations {
		if utils.IsSameDate(expiration, nowET, utils.NewYork()) {
			return expiration, nil
		}
	}

	if b.config.MaxDTE <= 0 {
		return time.Time{}, fmt.Errorf("SelectExpiration: no same-day expiration listed for %s", nowET.Format("2006-01-02"))
	}

	horizon := nowET.AddDate(0, 0, b.config.MaxDTE)
	for _, expiration := range expirations {
		if expiration.Before(nowET.Truncate(24 * time.Hour)) {
			continue
		}

		if !expiration.After(horizon) {
			log.Warnf("SelectExpiration: no same-day expiration, using nearest expiration %s", expiration.Format("2006-01-02"))
			return expiration, nil
		}
	}

	return time.Time{}, fmt.Errorf("SelectExpiration: no expiration within %d days of %s", b.config.MaxDTE, nowET.Format("2006-01-02"))
}

// Build fetches the chain for the selected expiration and trims it to the
// configured strike window around the current underlying price.
func (b *UniverseBuilder) Build(now time.Time) (*Universe, error) {
	symbol := eventmodels.NewStockSymbol(b.config.Symbol)

	underlyingPrice, err := b.broker.FetchStockPrice(symbol)
	if err != nil {
		return nil, fmt.Errorf("UniverseBuilder.Build: failed to fetch underlying price: %w", err)
	}

	expirations, err := b.broker.FetchOptionExpirations(symbol)
	if err != nil {
		return nil, fmt.Errorf("UniverseBuilder.Build: failed to fetch expirations: %w", err)
	}

	expiration, err := b.SelectExpiration(expirations, now)
	if err != nil {
		return nil, fmt.Errorf("UniverseBuilder.Build: %w", err)
	}

	chain, err := b.broker.FetchOptionChain(symbol, expiration)
	if err != nil {
		return nil, fmt.Errorf("UniverseBuilder.Build: failed to fetch option chain: %w", err)
	}

	if len(chain.Contracts) == 0 {
		return nil, fmt.Errorf("UniverseBuilder.Build: empty option chain for %s expiring %s", symbol, expiration.Format("2006-01-02"))
	}

	trimmed := chain.StrikeWindow(underlyingPrice, b.config.StrikeWindow)

	log.Infof("UniverseBuilder.Build: loaded %d contracts for %s expiring %s (underlying $%.2f)", len(trimmed.Contracts), symbol, expiration.Format("2006-01-02"), underlyingPrice)

	return &Universe{
		Chain:           trimmed,
		UnderlyingPrice: underlyingPrice,
		Expiration:      expiration,
		IsZeroDTE:       utils.IsSameDate(expiration, now.In(utils.NewYork()), utils.NewYork()),
	}, nil
}
