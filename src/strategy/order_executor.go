package strategy

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventpubsub"
	"github.com/jiaming2012/spread-trader/src/utils"
)

// OrderExecutor owns the lifecycle of a single spread position: opening it,
// closing it, and reconciling its state against broker order updates. Only
// one spread is worked at a time.
type OrderExecutor struct {
	mu           sync.Mutex
	broker       eventservicesBroker
	config       *eventmodels.SpreadYAML
	position     *eventmodels.SpreadPosition
	pendingOpen  bool
	pendingClose bool

	// per-leg close orders working after a combo close fallback
	legCloseOrders     map[uint]bool
	legCloseDebit      float64
	legCloseMissedFill bool
}

// eventservicesBroker is re-declared locally so the executor can be driven by
// the mock broker in tests without importing the full service surface.
type eventservicesBroker interface {
	PlaceSpreadOrder(req eventmodels.PlaceSpreadOrderRequest) (uint, error)
	PlaceLegOrder(req eventmodels.PlaceLegOrderRequest) (uint, error)
	CancelOrder(orderID uint) error
	FetchOrder(orderID uint) (*eventmodels.TradierOrder, error)
	FetchQuotes(symbols []string) ([]eventmodels.OptionQuoteDTO, error)
	FetchPositions() ([]eventmodels.TradierPositionDTO, error)
}

func NewOrderExecutor(broker eventservicesBroker, config *eventmodels.SpreadYAML) *OrderExecutor {
	return &OrderExecutor{broker: broker, config: config}
}

func (e *OrderExecutor) Position() *eventmodels.SpreadPosition {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.position == nil {
		return nil
	}

	position := *e.position
	return &position
}

func (e *OrderExecutor) HasPosition() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position != nil
}

func (e *OrderExecutor) IsPendingOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingOpen
}

func (e *OrderExecutor) IsPendingClose() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingClose
}

// IsOpen reports whether a filled spread is on and not yet being closed.
func (e *OrderExecutor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position != nil && !e.pendingOpen && !e.pendingClose
}

// Reset clears all position state. Called at the start of each trading day.
func (e *OrderExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.position = nil
	e.pendingOpen = false
	e.pendingClose = false
	e.legCloseOrders = nil
	e.legCloseDebit = 0
	e.legCloseMissedFill = false
}

func (e *OrderExecutor) strategyName() string {
	return fmt.Sprintf("%s-spread", strings.ReplaceAll(e.config.SpreadType, "_", "-"))
}

// OpenSpread submits a multileg credit order for the spread at its quoted
// credit and records a provisional position. The open credit and exit levels
// are finalized from the fills when the order completes.
func (e *OrderExecutor) OpenSpread(spread *eventmodels.VerticalSpread, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.position != nil || e.pendingOpen {
		return fmt.Errorf("OpenSpread: a position is already open or pending")
	}

	if err := spread.Validate(); err != nil {
		return fmt.Errorf("OpenSpread: %w", err)
	}

	credit := roundToCents(spread.Credit())
	tag := utils.EncodeTag(e.strategyName(), e.config.EstimatedCredit, credit)
	if err := utils.ValidateTag(tag); err != nil {
		return fmt.Errorf("OpenSpread: %w", err)
	}

	req := eventmodels.PlaceSpreadOrderRequest{
		Underlying:        spread.Underlying,
		ShortOptionSymbol: spread.ShortLeg.Symbol,
		LongOptionSymbol:  spread.LongLeg.Symbol,
		ShortSide:         "sell_to_open",
		LongSide:          "buy_to_open",
		Quantity:          e.config.Quantity,
		TradeType:         eventmodels.TradierTradeTypeCredit,
		TradeDuration:     eventmodels.TradeDurationDay,
		Price:             credit,
		Tag:               tag,
	}

	orderID, err := e.broker.PlaceSpreadOrder(req)
	if err != nil {
		return fmt.Errorf("OpenSpread: failed to place spread order: %w", err)
	}

	e.position = &eventmodels.SpreadPosition{
		ID:          uuid.New(),
		Type:        spread.Type,
		Underlying:  spread.Underlying,
		ShortSymbol: spread.ShortLeg.Symbol,
		LongSymbol:  spread.LongLeg.Symbol,
		ShortStrike: spread.ShortLeg.Strike,
		LongStrike:  spread.LongLeg.Strike,
		Expiration:  spread.Expiration,
		Quantity:    e.config.Quantity,
		OpenCredit:  credit,
		OpenOrderID: orderID,
		Tag:         tag,
		OpenedAt:    now,
	}
	e.pendingOpen = true

	log.Infof("OpenSpread: placed order %d, short %s / long %s x%d for $%.2f credit",
		orderID, spread.ShortLeg.Symbol, spread.LongLeg.Symbol, e.config.Quantity, credit)

	return nil
}

// CloseSpread submits a multileg debit order to unwind the position. When the
// combo order is rejected by the broker the legs are closed individually.
func (e *OrderExecutor) CloseSpread(debit float64, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.position == nil {
		return fmt.Errorf("CloseSpread: no position to close")
	}

	if e.pendingClose {
		log.Debugf("CloseSpread: close order %d already working", e.position.CloseOrderID)
		return nil
	}

	debit = roundToCents(debit)
	log.Infof("CloseSpread: closing %s for $%.2f debit (%s)", e.position.Tag, debit, reason)

	req := eventmodels.PlaceSpreadOrderRequest{
		Underlying:        e.position.Underlying,
		ShortOptionSymbol: e.position.ShortSymbol,
		LongOptionSymbol:  e.position.LongSymbol,
		ShortSide:         "buy_to_close",
		LongSide:          "sell_to_close",
		Quantity:          e.position.Quantity,
		TradeType:         eventmodels.TradierTradeTypeDebit,
		TradeDuration:     eventmodels.TradeDurationDay,
		Price:             debit,
		Tag:               e.position.Tag,
	}

	orderID, err := e.broker.PlaceSpreadOrder(req)
	if err != nil {
		log.Errorf("CloseSpread: combo close failed, falling back to closing each leg: %v", err)
		return e.closeLegsLocked()
	}

	e.position.CloseOrderID = orderID
	e.pendingClose = true

	return nil
}

// ForceClose unwinds the position at the market. Used as the last resort
// before the broker exercises or expires the legs.
func (e *OrderExecutor) ForceClose() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.position == nil {
		return fmt.Errorf("ForceClose: no position to close")
	}

	if e.pendingClose {
		if e.position.CloseOrderID > 0 {
			log.Warnf("ForceClose: canceling working close order %d", e.position.CloseOrderID)
			if err := e.broker.CancelOrder(e.position.CloseOrderID); err != nil {
				log.Errorf("ForceClose: failed to cancel order %d: %v", e.position.CloseOrderID, err)
			}
		}

		for orderID := range e.legCloseOrders {
			log.Warnf("ForceClose: canceling working leg close order %d", orderID)
			if err := e.broker.CancelOrder(orderID); err != nil {
				log.Errorf("ForceClose: failed to cancel order %d: %v", orderID, err)
			}
		}

		e.legCloseOrders = nil
		e.position.CloseOrderID = 0
		e.pendingClose = false
	}

	req := eventmodels.PlaceSpreadOrderRequest{
		Underlying:        e.position.Underlying,
		ShortOptionSymbol: e.position.ShortSymbol,
		LongOptionSymbol:  e.position.LongSymbol,
		ShortSide:         "buy_to_close",
		LongSide:          "sell_to_close",
		Quantity:          e.position.Quantity,
		TradeType:         eventmodels.TradierTradeTypeMarket,
		TradeDuration:     eventmodels.TradeDurationDay,
		Tag:               e.position.Tag,
	}

	orderID, err := e.broker.PlaceSpreadOrder(req)
	if err != nil {
		log.Errorf("ForceClose: combo market close failed, falling back to closing each leg: %v", err)
		return e.closeLegsLocked()
	}

	e.position.CloseOrderID = orderID
	e.pendingClose = true

	return nil
}

// ForceLiquidate sweeps the broker's account positions and sends a market
// close for every option leg still held. Last-ditch end-of-day failsafe for
// legs the tracked position no longer covers, a rejected leg close included.
func (e *OrderExecutor) ForceLiquidate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	dtos, err := e.broker.FetchPositions()
	if err != nil {
		return fmt.Errorf("ForceLiquidate: failed to fetch positions: %w", err)
	}

	for _, dto := range dtos {
		position, modelErr := dto.ToModel()
		if modelErr != nil {
			log.Errorf("ForceLiquidate: failed to parse position %s: %v", dto.Symbol, modelErr)
			continue
		}

		if position.Quantity == 0 {
			continue
		}

		components, parseErr := eventmodels.NewOptionSymbolComponents(position.Symbol)
		if parseErr != nil {
			log.Warnf("ForceLiquidate: %s is not an option position, skipping: %v", position.Symbol, parseErr)
			continue
		}

		side := "sell_to_close"
		if position.Quantity < 0 {
			side = "buy_to_close"
		}

		tag := "force-liquidate"
		if e.position != nil {
			tag = e.position.Tag
		}

		req := eventmodels.PlaceLegOrderRequest{
			Underlying:    components.Underlying,
			OptionSymbol:  position.Symbol,
			Side:          side,
			Quantity:      int(math.Abs(position.Quantity)),
			TradeType:     eventmodels.TradierTradeTypeMarket,
			TradeDuration: eventmodels.TradeDurationDay,
			Tag:           tag,
		}

		orderID, placeErr := e.broker.PlaceLegOrder(req)
		if placeErr != nil {
			return fmt.Errorf("ForceLiquidate: failed to liquidate %s: %w", position.Symbol, placeErr)
		}

		log.Warnf("ForceLiquidate: placed %s order %d for %s x%d", side, orderID, position.Symbol, req.Quantity)
	}

	return nil
}

// closeLegsLocked closes the short and long legs as two separate orders. A
// leg whose quote has gone one-sided gets a market order instead of a limit.
// Caller holds e.mu.
func (e *OrderExecutor) closeLegsLocked() error {
	quotes, err := e.broker.FetchQuotes([]string{string(e.position.ShortSymbol), string(e.position.LongSymbol)})
	if err != nil {
		return fmt.Errorf("closeLegsLocked: failed to fetch leg quotes: %w", err)
	}

	quoteBySymbol := make(map[string]eventmodels.OptionQuoteDTO)
	for _, q := range quotes {
		quoteBySymbol[q.Symbol] = q
	}

	legs := []struct {
		symbol eventmodels.OptionSymbol
		side   string
	}{
		{e.position.ShortSymbol, "buy_to_close"},
		{e.position.LongSymbol, "sell_to_close"},
	}

	e.legCloseOrders = make(map[uint]bool)
	e.legCloseDebit = 0
	e.legCloseMissedFill = false

	for _, leg := range legs {
		req := eventmodels.PlaceLegOrderRequest{
			Underlying:    e.position.Underlying,
			OptionSymbol:  leg.symbol,
			Side:          leg.side,
			Quantity:      e.position.Quantity,
			TradeDuration: eventmodels.TradeDurationDay,
			Tag:           e.position.Tag,
		}

		quote, ok := quoteBySymbol[string(leg.symbol)]
		switch {
		case !ok || quote.Bid <= 0 || quote.Ask <= 0:
			log.Warnf("closeLegsLocked: %s quote is one-sided, sending market order", leg.symbol)
			req.TradeType = eventmodels.TradierTradeTypeMarket
		case leg.side == "buy_to_close":
			req.TradeType = eventmodels.TradierTradeTypeLimit
			req.Price = roundToCents(quote.Ask)
		default:
			req.TradeType = eventmodels.TradierTradeTypeLimit
			req.Price = roundToCents(quote.Bid)
		}

		orderID, placeErr := e.broker.PlaceLegOrder(req)
		if placeErr != nil {
			return fmt.Errorf("closeLegsLocked: failed to close leg %s: %w", leg.symbol, placeErr)
		}

		log.Infof("closeLegsLocked: placed %s order %d for %s", leg.side, orderID, leg.symbol)
		e.legCloseOrders[orderID] = true
	}

	e.position.CloseOrderID = 0
	e.pendingClose = true

	return nil
}

// RegisterEventHandlers subscribes the executor to broker order updates. A
// marketable order often fills inside one poll interval, so the first
// snapshot the monitor takes may already carry the terminal status and no
// modify event ever follows; create events are reconciled for that reason.
func (e *OrderExecutor) RegisterEventHandlers() error {
	if err := eventpubsub.SubscribeOrderCreate(e.handleOrderCreateEvent); err != nil {
		return fmt.Errorf("RegisterEventHandlers: %w", err)
	}

	if err := eventpubsub.SubscribeOrderModify(e.handleOrderModifyEvent); err != nil {
		return fmt.Errorf("RegisterEventHandlers: %w", err)
	}

	return nil
}

func (e *OrderExecutor) handleOrderCreateEvent(event *eventmodels.TradierOrderCreateEvent) {
	if event.Order == nil {
		return
	}

	e.applyOrderStatus(event.Order.ID, event.Order.Status)
}

func (e *OrderExecutor) handleOrderModifyEvent(event *eventmodels.TradierOrderModifyEvent) {
	if event.Field != "status" {
		return
	}

	status, ok := event.New.(eventmodels.OrderStatus)
	if !ok {
		log.Errorf("handleOrderModifyEvent: unexpected status type %T for order %d", event.New, event.OrderID)
		return
	}

	e.applyOrderStatus(event.OrderID, status)
}

func (e *OrderExecutor) applyOrderStatus(orderID uint, status eventmodels.OrderStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.position == nil {
		return
	}

	if e.legCloseOrders[orderID] {
		e.handleLegCloseStatusLocked(orderID, status)
		return
	}

	switch orderID {
	case e.position.OpenOrderID:
		e.handleOpenOrderStatusLocked(status)
	case e.position.CloseOrderID:
		e.handleCloseOrderStatusLocked(status)
	}
}

// handleOpenOrderStatusLocked finalizes or abandons a pending open. On a fill
// the actual credit is recomputed from the leg fills and the stop loss and
// profit target debits are derived from it. Caller holds e.mu.
func (e *OrderExecutor) handleOpenOrderStatusLocked(status eventmodels.OrderStatus) {
	switch {
	case status.IsFilled():
		credit := e.fetchFillPremiumLocked(e.position.OpenOrderID)
		if credit <= 0 {
			log.Warnf("handleOpenOrderStatusLocked: could not determine fill credit for order %d, using estimate $%.2f", e.position.OpenOrderID, e.config.EstimatedCredit)
			credit = e.config.EstimatedCredit
		}

		e.position.OpenCredit = credit
		e.position.StopLossDebit = credit * e.config.StopLossMultiple
		e.position.ProfitTargetDebit = credit * (1.0 - e.config.ProfitTargetPct)
		e.pendingOpen = false

		log.Infof("handleOpenOrderStatusLocked: order %d filled for $%.2f credit, stop loss at $%.2f debit, profit target at $%.2f debit",
			e.position.OpenOrderID, credit, e.position.StopLossDebit, e.position.ProfitTargetDebit)

		position := *e.position
		eventpubsub.PublishSpreadOpened(&position)

	case status.IsTerminal():
		log.Warnf("handleOpenOrderStatusLocked: opening order %d ended %s, resetting position state", e.position.OpenOrderID, status)
		e.position = nil
		e.pendingOpen = false
	}
}

func (e *OrderExecutor) handleCloseOrderStatusLocked(status eventmodels.OrderStatus) {
	switch {
	case status.IsFilled():
		debit := -e.fetchFillPremiumLocked(e.position.CloseOrderID)
		profit := (e.position.OpenCredit - debit) * 100.0 * float64(e.position.Quantity)

		log.Infof("handleCloseOrderStatusLocked: order %d filled for $%.2f debit, realized $%.2f on %s",
			e.position.CloseOrderID, debit, profit, e.position.Tag)

		position := *e.position
		eventpubsub.PublishSpreadClosed(&position)

		e.position = nil
		e.pendingClose = false

	case status.IsTerminal():
		log.Warnf("handleCloseOrderStatusLocked: closing order %d ended %s, will retry the close", e.position.CloseOrderID, status)
		e.position.CloseOrderID = 0
		e.pendingClose = false
	}
}

// handleLegCloseStatusLocked tracks the two orders of a per-leg close. The
// position is realized only once every leg order has filled; a leg that ends
// without a fill clears pendingClose so the next tick retries, and the
// end-of-day positions sweep picks up whatever is left. Caller holds e.mu.
func (e *OrderExecutor) handleLegCloseStatusLocked(orderID uint, status eventmodels.OrderStatus) {
	switch {
	case status.IsFilled():
		e.legCloseDebit += e.legFillDebitLocked(orderID)
		delete(e.legCloseOrders, orderID)

	case status.IsTerminal():
		log.Warnf("handleLegCloseStatusLocked: leg close order %d ended %s", orderID, status)
		e.legCloseMissedFill = true
		delete(e.legCloseOrders, orderID)

	default:
		return
	}

	if len(e.legCloseOrders) > 0 {
		return
	}

	if e.legCloseMissedFill {
		log.Warnf("handleLegCloseStatusLocked: not every leg closed, will retry")
		e.pendingClose = false
		return
	}

	profit := (e.position.OpenCredit - e.legCloseDebit) * 100.0 * float64(e.position.Quantity)
	log.Infof("handleLegCloseStatusLocked: legs closed for $%.2f debit, realized $%.2f on %s", e.legCloseDebit, profit, e.position.Tag)

	position := *e.position
	eventpubsub.PublishSpreadClosed(&position)

	e.position = nil
	e.pendingClose = false
}

// legFillDebitLocked returns the cost contribution of a single-leg close
// fill: positive for the short buy-back, negative for the long sale. Caller
// holds e.mu.
func (e *OrderExecutor) legFillDebitLocked(orderID uint) float64 {
	order, err := e.broker.FetchOrder(orderID)
	if err != nil {
		log.Errorf("legFillDebitLocked: failed to fetch order %d: %v", orderID, err)
		return 0
	}

	if len(order.Leg) > 0 {
		return -order.NetFillPremium()
	}

	if strings.HasPrefix(order.Side, "sell") {
		return -order.AvgFillPrice
	}

	return order.AvgFillPrice
}

// fetchFillPremiumLocked returns the net premium of the order's fills, or 0
// when the order cannot be fetched. Caller holds e.mu.
func (e *OrderExecutor) fetchFillPremiumLocked(orderID uint) float64 {
	order, err := e.broker.FetchOrder(orderID)
	if err != nil {
		log.Errorf("fetchFillPremiumLocked: failed to fetch order %d: %v", orderID, err)
		return 0
	}

	if len(order.Leg) == 0 {
		return order.AvgFillPrice
	}

	return order.NetFillPremium()
}

func roundToCents(x float64) float64 {
	return math.Round(x*100.0) / 100.0
}
