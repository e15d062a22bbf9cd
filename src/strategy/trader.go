package strategy

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/utils"
)

// Trader runs the daily spread cycle: wait for the entry window, open one
// spread, manage it against the stop loss and profit target, and make sure
// nothing is left on past the end-of-day cutoffs.
type Trader struct {
	wg           *sync.WaitGroup
	broker       eventservices.IBroker
	config       *eventmodels.SpreadYAML
	universe     *UniverseBuilder
	selector     *SpreadSelector
	executor     *OrderExecutor
	risk         *RiskManager
	tickInterval time.Duration
	nowFn        func() time.Time

	currentDay  string
	hours       *eventmodels.Calendar
	openedToday bool
	sweptToday  bool
}

func NewTrader(wg *sync.WaitGroup, broker eventservices.IBroker, config *eventmodels.SpreadYAML, executor *OrderExecutor, tickInterval time.Duration) *Trader {
	if tickInterval == 0 {
		tickInterval = 15 * time.Second
	}

	return &Trader{
		wg:           wg,
		broker:       broker,
		config:       config,
		universe:     NewUniverseBuilder(broker, config),
		selector:     NewSpreadSelector(config),
		executor:     executor,
		risk:         NewRiskManager(config),
		tickInterval: tickInterval,
		nowFn:        time.Now,
	}
}

func (t *Trader) Executor() *OrderExecutor {
	return t.executor
}

func (t *Trader) Start(ctx context.Context) {
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()

		timer := time.NewTicker(t.tickInterval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Trader: stopping")
				return
			case <-timer.C:
				if err := t.Tick(t.nowFn()); err != nil {
					log.Errorf("Trader: %v", err)
				}
			}
		}
	}()

	log.Infof("Trader: started for %s, ticking every %v", t.config.Symbol, t.tickInterval)
}

// Tick advances the strategy by one step. Errors are transient by design:
// the next tick retries whatever failed.
func (t *Trader) Tick(now time.Time) error {
	nowET := now.In(utils.NewYork())

	if err := t.refreshDay(nowET); err != nil {
		return err
	}

	if t.hours == nil {
		log.Debugf("Tick: market closed on %s", nowET.Format("2006-01-02"))
		return nil
	}

	if !t.hours.IsBetweenMarketHours(nowET) {
		log.Debugf("Tick: outside market hours at %s", nowET.Format("15:04"))
		return nil
	}

	forceCloseAt := t.hours.MarketClose.Add(-time.Duration(t.config.ForceCloseBufferMinutes) * time.Minute)
	closeAt := t.hours.MarketClose.Add(-time.Duration(t.config.CloseBufferMinutes) * time.Minute)

	if !nowET.Before(forceCloseAt) {
		if t.executor.HasPosition() {
			log.Warnf("Tick: %d minutes to the close, force closing", t.config.ForceCloseBufferMinutes)
			return t.executor.ForceClose()
		}

		// the tracked position is gone, sweep the account once for any leg a
		// rejected close left behind
		if !t.sweptToday {
			if err := t.executor.ForceLiquidate(); err != nil {
				return err
			}

			t.sweptToday = true
		}

		return nil
	}

	if !nowET.Before(closeAt) {
		if t.executor.HasPosition() && !t.executor.IsPendingClose() {
			return t.closePositionEndOfDay()
		}

		return nil
	}

	if t.executor.IsOpen() {
		return t.managePosition()
	}

	if t.executor.HasPosition() {
		// an order is still working, wait for the fill event
		return nil
	}

	return t.maybeOpenPosition(nowET, closeAt)
}

// refreshDay resets per-day state and reloads the session hours when the
// calendar date rolls over.
func (t *Trader) refreshDay(nowET time.Time) error {
	day := nowET.Format("2006-01-02")
	if day == t.currentDay {
		return nil
	}

	calendar, err := t.broker.FetchCalendar(nowET)
	if err != nil {
		return fmt.Errorf("refreshDay: failed to fetch market calendar: %w", err)
	}

	hours, err := eventservices.GetMarketHours(calendar, nowET)
	if err != nil {
		return fmt.Errorf("refreshDay: failed to resolve market hours: %w", err)
	}

	t.currentDay = day
	t.hours = hours
	t.openedToday = false
	t.sweptToday = false
	t.executor.Reset()

	if hours == nil {
		log.Infof("refreshDay: %s is not a trading day", day)
	} else {
		log.Infof("refreshDay: %s session runs %s to %s ET", day, hours.MarketOpen.Format("15:04"), hours.MarketClose.Format("15:04"))
	}

	return nil
}

func (t *Trader) entryTime(nowET time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", t.config.EntryTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("entryTime: invalid entry time %q: %w", t.config.EntryTime, err)
	}

	return time.Date(nowET.Year(), nowET.Month(), nowET.Day(), parsed.Hour(), parsed.Minute(), 0, 0, utils.NewYork()), nil
}

func (t *Trader) maybeOpenPosition(nowET, closeAt time.Time) error {
	if t.openedToday {
		return nil
	}

	entryAt, err := t.entryTime(nowET)
	if err != nil {
		return fmt.Errorf("maybeOpenPosition: %w", err)
	}

	if nowET.Before(entryAt) {
		return nil
	}

	if !nowET.Before(closeAt) {
		log.Infof("maybeOpenPosition: entry window has passed, skipping today")
		t.openedToday = true
		return nil
	}

	universe, err := t.universe.Build(nowET)
	if err != nil {
		return fmt.Errorf("maybeOpenPosition: %w", err)
	}

	spread, err := t.selector.SelectSpread(universe)
	if err != nil {
		return fmt.Errorf("maybeOpenPosition: %w", err)
	}

	if err := t.executor.OpenSpread(spread, nowET); err != nil {
		return fmt.Errorf("maybeOpenPosition: %w", err)
	}

	t.openedToday = true
	return nil
}

func (t *Trader) managePosition() error {
	position := t.executor.Position()
	if position == nil {
		return nil
	}

	chain, err := t.positionChain(position)
	if err != nil {
		return fmt.Errorf("managePosition: %w", err)
	}

	debit, reason, err := t.risk.CheckExits(position, chain)
	if err != nil {
		return fmt.Errorf("managePosition: %w", err)
	}

	if reason == ExitReasonNone {
		return nil
	}

	if err := t.executor.CloseSpread(debit, string(reason)); err != nil {
		return fmt.Errorf("managePosition: %w", err)
	}

	return nil
}

func (t *Trader) closePositionEndOfDay() error {
	position := t.executor.Position()
	if position == nil {
		return nil
	}

	log.Infof("closePositionEndOfDay: %d minutes to the close, unwinding %s", t.config.CloseBufferMinutes, position.Tag)

	chain, err := t.positionChain(position)
	if err != nil {
		log.Errorf("closePositionEndOfDay: %v, falling back to open credit for the close price", err)
		return t.executor.CloseSpread(position.OpenCredit, "end_of_day")
	}

	debit, err := t.risk.MarkToMarket(position, chain)
	if err != nil {
		log.Errorf("closePositionEndOfDay: %v, falling back to open credit for the close price", err)
		debit = position.OpenCredit
	}

	return t.executor.CloseSpread(debit, "end_of_day")
}

func (t *Trader) positionChain(position *eventmodels.SpreadPosition) (*eventmodels.OptionChain, error) {
	chain, err := t.broker.FetchOptionChain(position.Underlying, position.Expiration)
	if err != nil {
		return nil, fmt.Errorf("positionChain: failed to fetch option chain: %w", err)
	}

	if len(chain.Contracts) == 0 {
		return nil, fmt.Errorf("positionChain: empty option chain for %s expiring %s", position.Underlying, position.Expiration.Format("2006-01-02"))
	}

	return chain, nil
}
