package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

type OptionProfit struct {
	Profit    float64
	IsInMoney bool
}

func findCandleDTOAt(timestamp time.Time, data []*eventmodels.CandleDTO) (*eventmodels.CandleDTO, error) {
	for _, d := range data {
		if d.Date == timestamp.Format("2006-01-02 15:04:00") {
			return d, nil
		}
	}

	return nil, errors.New("findCandleDTOAt: no matching data found")
}

func isOptionExpired(option eventmodels.OptionSymbolComponents, now time.Time) bool {
	return option.Expiration.Before(now)
}

func calculateOptionProfitAtExpiry(option eventmodels.OptionSymbolComponents, premium float64, underlyingPriceAtExpiry float64, optionMultiplier float64) (float64, error) {
	switch option.OptionType {
	case eventmodels.OptionTypeCall:
		if underlyingPriceAtExpiry > option.StrikePrice {
			return (underlyingPriceAtExpiry - option.StrikePrice - premium) * optionMultiplier, nil
		}

		return -premium * optionMultiplier, nil
	case eventmodels.OptionTypePut:
		if underlyingPriceAtExpiry < option.StrikePrice {
			return (option.StrikePrice - underlyingPriceAtExpiry - premium) * optionMultiplier, nil
		}

		return -premium * optionMultiplier, nil
	default:
		return 0, errors.New("calculateOptionProfitAtExpiry: invalid option type")
	}
}

func calculateLegProfitAtExpiry(option eventmodels.OptionSymbolComponents, side string, premiumPaid float64, underlyingClosePrcAtExpiry float64, optionMultiplier float64) (OptionProfit, error) {
	profit, err := calculateOptionProfitAtExpiry(option, premiumPaid, underlyingClosePrcAtExpiry, optionMultiplier)
	if err != nil {
		return OptionProfit{}, fmt.Errorf("calculateLegProfitAtExpiry: %w", err)
	}

	var optionProfit OptionProfit
	if profit > 0 {
		optionProfit.IsInMoney = true
	}

	switch side {
	case "sell_to_open":
		profit *= -1
	case "buy_to_open":
	default:
		return OptionProfit{}, fmt.Errorf("calculateLegProfitAtExpiry: invalid side %s", side)
	}

	optionProfit.Profit = profit

	return optionProfit, nil
}

// CalculateOptionOrderSpreadResult reconstructs the economics of a filled
// spread order: the premium collected or paid, slippage against the tagged
// request price, and the settlement profit of each leg once the options have
// expired.
func CalculateOptionOrderSpreadResult(req eventmodels.OptionSpreadAnalysisRequest, underlyingCandles []*eventmodels.CandleDTO, optionMultiplier float64) (*eventmodels.OptionOrderSpreadResult, error) {
	if len(underlyingCandles) == 0 {
		return nil, errors.New("CalculateOptionOrderSpreadResult: underlyingCandles cannot be empty")
	}

	signalName, expectedCredit, requestedPrice, err := DecodeTag(req.Tag)
	if err != nil {
		return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to decode tag: %w", err)
	}

	// a credit spread fills at a negative price from the buyer's side
	requestedPrice *= -1
	slippage := requestedPrice - req.AvgFillPrice

	option1, err := eventmodels.NewOptionSymbolComponents(req.Leg1.Symbol)
	if err != nil {
		return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to parse leg1 ticker: %w", err)
	}

	option2, err := eventmodels.NewOptionSymbolComponents(req.Leg2.Symbol)
	if err != nil {
		return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to parse leg2 ticker: %w", err)
	}

	now := time.Now()

	isExpired := isOptionExpired(*option1, now)
	if isExpired != isOptionExpired(*option2, now) {
		return nil, errors.New("CalculateOptionOrderSpreadResult: both options must have the same expiration status")
	}

	expirationDate, err := ConvertToMarketClose(option1.Expiration)
	if err != nil {
		return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to convert expiration to market close: %w", err)
	}

	var debitPaid, creditReceived float64
	if req.AvgFillPrice > 0 {
		debitPaid = req.AvgFillPrice * optionMultiplier
	} else {
		creditReceived = -req.AvgFillPrice * optionMultiplier
	}

	// candle dates are rendered in UTC
	underlyingAtOpen, err := findCandleDTOAt(req.CreateDate.UTC(), underlyingCandles)
	if err != nil {
		return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to find underlying price at open: %w", err)
	}

	result := eventmodels.OptionOrderSpreadResult{
		OrderID:               req.ID,
		Underlying:            req.Underlying,
		ExecutionType:         req.ExecutionType,
		Strategy:              "spread",
		CreatedTimestamp:      req.CreateDate,
		DebitPaid:             debitPaid,
		CreditReceived:        creditReceived,
		OrderID1:              req.Leg1.ID,
		Side1:                 req.Leg1.Side,
		OptionType1:           option1.OptionType,
		Symbol1:               req.Leg1.Symbol,
		StrikePrice1:          option1.StrikePrice,
		Quantity1:             req.Leg1.Quantity,
		AvgFillPrice1:         req.Leg1.AvgFillPrice,
		OrderID2:              req.Leg2.ID,
		Side2:                 req.Leg2.Side,
		OptionType2:           option2.OptionType,
		Symbol2:               req.Leg2.Symbol,
		StrikePrice2:          option2.StrikePrice,
		Quantity2:             req.Leg2.Quantity,
		AvgFillPrice2:         req.Leg2.AvgFillPrice,
		SignalName:            signalName,
		ExpirationDate:        expirationDate,
		ExpectedProfit:        expectedCredit * optionMultiplier,
		RequestedPrice:        requestedPrice,
		ExecutedPrice:         req.AvgFillPrice,
		Slippage:              slippage,
		UnderlyingPriceAtOpen: underlyingAtOpen.Close,
		IsClosed:              isExpired,
	}

	if isExpired {
		// settle against the underlying shortly before the close bell
		buffer := 15 * time.Minute
		underlyingAtExpiry, err := findCandleDTOAt(expirationDate.Add(-buffer).UTC(), underlyingCandles)
		if err != nil {
			return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: failed to find underlying price at expiry: %w", err)
		}

		profit1, err := calculateLegProfitAtExpiry(*option1, req.Leg1.Side, req.Leg1.AvgFillPrice, underlyingAtExpiry.Close, optionMultiplier)
		if err != nil {
			return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: %w", err)
		}

		profit2, err := calculateLegProfitAtExpiry(*option2, req.Leg2.Side, req.Leg2.AvgFillPrice, underlyingAtExpiry.Close, optionMultiplier)
		if err != nil {
			return nil, fmt.Errorf("CalculateOptionOrderSpreadResult: %w", err)
		}

		result.UnderlyingPriceAtExpiry = underlyingAtExpiry.Close
		result.InTheMoney1 = profit1.IsInMoney
		result.Profit1 = profit1.Profit
		result.InTheMoney2 = profit2.IsInMoney
		result.Profit2 = profit2.Profit
		result.Profit = profit1.Profit + profit2.Profit
	}

	return &result, nil
}
