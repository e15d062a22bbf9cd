package eventmodels

import (
	"fmt"
	"strconv"
	"time"
)

// OptionSymbolComponents holds the parsed parts of an OCC option ticker,
// e.g. SPY240119P00475000 -> SPY, Jan 19 2024, Put, $475.00
type OptionSymbolComponents struct {
	Underlying  StockSymbol
	Expiration  time.Time
	OptionType  OptionType
	StrikePrice float64
	Symbol      OptionSymbol
}

func NewOptionSymbolComponents(symbol OptionSymbol) (*OptionSymbolComponents, error) {
	ticker := symbol.NoPrefix()

	// underlying (1-6 chars) + yymmdd + C/P + 8-digit strike
	if len(ticker) < 16 {
		return nil, fmt.Errorf("NewOptionSymbolComponents: ticker too short: %s", ticker)
	}

	tail := ticker[len(ticker)-15:]
	underlying := ticker[:len(ticker)-15]

	expiration, err := time.Parse("060102", tail[:6])
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse expiration in %s: %w", ticker, err)
	}

	var optionType OptionType
	switch tail[6] {
	case 'C':
		optionType = OptionTypeCall
	case 'P':
		optionType = OptionTypePut
	default:
		return nil, fmt.Errorf("NewOptionSymbolComponents: invalid option type %c in %s", tail[6], ticker)
	}

	strikeInt, err := strconv.Atoi(tail[7:])
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse strike in %s: %w", ticker, err)
	}

	return &OptionSymbolComponents{
		Underlying:  NewStockSymbol(underlying),
		Expiration:  expiration,
		OptionType:  optionType,
		StrikePrice: float64(strikeInt) / 1000.0,
		Symbol:      symbol,
	}, nil
}
