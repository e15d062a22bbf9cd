package eventmodels

import (
	"fmt"
	"time"
)

// OptionQuoteDTO is the quote payload returned by both the Tradier markets/quotes
// and markets/options/chains endpoints. Greeks is only populated when the chain
// is requested with greeks=true.
type OptionQuoteDTO struct {
	Symbol           string     `json:"symbol"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	Last             float64    `json:"last"`
	Change           float64    `json:"change"`
	Volume           int        `json:"volume"`
	Open             float64    `json:"open"`
	High             float64    `json:"high"`
	Low              float64    `json:"low"`
	Close            float64    `json:"close"`
	PrevClose        float64    `json:"prevclose"`
	Bid              float64    `json:"bid"`
	Ask              float64    `json:"ask"`
	BidSize          int        `json:"bidsize"`
	AskSize          int        `json:"asksize"`
	Underlying       string     `json:"underlying"`
	Strike           float64    `json:"strike"`
	OpenInterest     int        `json:"open_interest"`
	ContractSize     int        `json:"contract_size"`
	ExpirationDate   string     `json:"expiration_date"`
	ExpirationType   string     `json:"expiration_type"`
	OptionType       string     `json:"option_type"`
	RootSymbol       string     `json:"root_symbol"`
	ChangePercentage float64    `json:"change_percentage"`
	AverageVolume    int        `json:"average_volume"`
	LastVolume       int        `json:"last_volume"`
	Greeks           *GreeksDTO `json:"greeks"`
}

func (dto *OptionQuoteDTO) ToOptionContract() (*OptionContract, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("OptionQuoteDTO.ToOptionContract(): failed to load location: %w", err)
	}

	expiration, err := time.ParseInLocation("2006-01-02", dto.ExpirationDate, loc)
	if err != nil {
		return nil, fmt.Errorf("OptionQuoteDTO.ToOptionContract(): failed to parse expiration date %s: %w", dto.ExpirationDate, err)
	}

	optionType := OptionType(dto.OptionType)
	if !optionType.IsValid() {
		return nil, fmt.Errorf("OptionQuoteDTO.ToOptionContract(): invalid option type: %s", dto.OptionType)
	}

	contract := &OptionContract{
		Symbol:       OptionSymbol(dto.Symbol),
		Underlying:   NewStockSymbol(dto.Underlying),
		Description:  dto.Description,
		Strike:       dto.Strike,
		OptionType:   optionType,
		Expiration:   expiration,
		Bid:          dto.Bid,
		Ask:          dto.Ask,
		Last:         dto.Last,
		Volume:       dto.Volume,
		OpenInterest: dto.OpenInterest,
	}

	if dto.Greeks != nil {
		contract.Delta = dto.Greeks.Delta
		contract.Gamma = dto.Greeks.Gamma
		contract.Theta = dto.Greeks.Theta
		contract.Vega = dto.Greeks.Vega
		contract.MidIV = dto.Greeks.MidIv
		contract.HasGreeks = true
	}

	return contract, nil
}
