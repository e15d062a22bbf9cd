package eventmodels

import (
	"math"
	"sort"
	"time"
)

const strikeTolerance = 1e-3

type OptionChain struct {
	Underlying StockSymbol
	Contracts  []*OptionContract
}

func (chain *OptionChain) Puts() []*OptionContract {
	return chain.filter(OptionTypePut)
}

func (chain *OptionChain) Calls() []*OptionContract {
	return chain.filter(OptionTypeCall)
}

func (chain *OptionChain) filter(optionType OptionType) []*OptionContract {
	var out []*OptionContract
	for _, c := range chain.Contracts {
		if c.OptionType == optionType {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Strike < out[j].Strike
	})

	return out
}

func (chain *OptionChain) ExpiringOn(expiration time.Time) *OptionChain {
	var out []*OptionContract
	for _, c := range chain.Contracts {
		y1, m1, d1 := c.Expiration.Date()
		y2, m2, d2 := expiration.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			out = append(out, c)
		}
	}

	return &OptionChain{Underlying: chain.Underlying, Contracts: out}
}

// StrikeWindow trims the chain to the window strikes above and below the
// underlying price, per side. Strikes are counted per option type since the
// chain carries both calls and puts.
func (chain *OptionChain) StrikeWindow(underlyingPrice float64, window int) *OptionChain {
	var out []*OptionContract
	for _, optionType := range []OptionType{OptionTypePut, OptionTypeCall} {
		contracts := chain.filter(optionType)

		pivot := sort.Search(len(contracts), func(i int) bool {
			return contracts[i].Strike >= underlyingPrice
		})

		lo := pivot - window
		if lo < 0 {
			lo = 0
		}

		hi := pivot + window
		if hi > len(contracts) {
			hi = len(contracts)
		}

		out = append(out, contracts[lo:hi]...)
	}

	return &OptionChain{Underlying: chain.Underlying, Contracts: out}
}

func (chain *OptionChain) FindStrike(strike float64, optionType OptionType) *OptionContract {
	for _, c := range chain.Contracts {
		if c.OptionType == optionType && math.Abs(c.Strike-strike) < strikeTolerance {
			return c
		}
	}

	return nil
}

func (chain *OptionChain) Expirations() []time.Time {
	seen := make(map[string]time.Time)
	for _, c := range chain.Contracts {
		seen[c.Expiration.Format("2006-01-02")] = c.Expiration
	}

	var out []time.Time
	for _, t := range seen {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})

	return out
}
