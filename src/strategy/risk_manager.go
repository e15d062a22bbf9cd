package strategy

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

type ExitReason string

const (
	ExitReasonNone         ExitReason = ""
	ExitReasonStopLoss     ExitReason = "stop_loss"
	ExitReasonProfitTarget ExitReason = "profit_target"
)

// RiskManager marks an open position to market and decides whether its exit
// levels have been hit. The stop loss is checked before the profit target so
// a whipsawed quote never turns a loss exit into a profit exit.
type RiskManager struct {
	config *eventmodels.SpreadYAML
}

func NewRiskManager(config *eventmodels.SpreadYAML) *RiskManager {
	return &RiskManager{config: config}
}

// MarkToMarket returns the current cost of unwinding the position using the
// latest chain quotes.
func (r *RiskManager) MarkToMarket(position *eventmodels.SpreadPosition, chain *eventmodels.OptionChain) (float64, error) {
	optionType := position.Type.ShortOptionType()

	shortLeg := chain.FindStrike(position.ShortStrike, optionType)
	if shortLeg == nil {
		return 0, fmt.Errorf("MarkToMarket: short strike %.2f %s not found in chain", position.ShortStrike, optionType)
	}

	longLeg := chain.FindStrike(position.LongStrike, optionType)
	if longLeg == nil {
		return 0, fmt.Errorf("MarkToMarket: long strike %.2f %s not found in chain", position.LongStrike, optionType)
	}

	return eventmodels.DebitToClose(shortLeg, longLeg), nil
}

// CheckExits evaluates the position against its stop loss and profit target
// and returns the debit to close alongside the exit decision.
func (r *RiskManager) CheckExits(position *eventmodels.SpreadPosition, chain *eventmodels.OptionChain) (float64, ExitReason, error) {
	debit, err := r.MarkToMarket(position, chain)
	if err != nil {
		return 0, ExitReasonNone, fmt.Errorf("CheckExits: %w", err)
	}

	log.Debugf("CheckExits: %s marks at $%.2f debit (opened for $%.2f credit, stop $%.2f, target $%.2f)",
		position.Tag, debit, position.OpenCredit, position.StopLossDebit, position.ProfitTargetDebit)

	if position.StopLossDebit > 0 && debit >= position.StopLossDebit {
		log.Warnf("CheckExits: stop loss hit, debit $%.2f >= $%.2f", debit, position.StopLossDebit)
		return debit, ExitReasonStopLoss, nil
	}

	if position.ProfitTargetDebit > 0 && debit <= position.ProfitTargetDebit {
		log.Infof("CheckExits: profit target hit, debit $%.2f <= $%.2f", debit, position.ProfitTargetDebit)
		return debit, ExitReasonProfitTarget, nil
	}

	return debit, ExitReasonNone, nil
}
