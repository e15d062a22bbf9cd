package eventmodels

import "fmt"

type SpreadType string

const (
	SpreadTypeBullPut  SpreadType = "bull_put"
	SpreadTypeBearCall SpreadType = "bear_call"
)

func (t SpreadType) Validate() error {
	switch t {
	case SpreadTypeBullPut, SpreadTypeBearCall:
		return nil
	default:
		return fmt.Errorf("SpreadType.Validate: invalid spread type: %s", t)
	}
}

// ShortOptionType returns the option type of the spread's short leg.
func (t SpreadType) ShortOptionType() OptionType {
	if t == SpreadTypeBearCall {
		return OptionTypeCall
	}

	return OptionTypePut
}
