package strategy

import (
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

const exactDeltaTolerance = 0.05

// SpreadSelector picks the short and long legs of a credit spread from a
// loaded chain. Short strikes are chosen by delta, long strikes by width,
// and the candidate spread must clear a minimum credit as a fraction of its
// width, with a lower fallback bucket tried before giving up.
type SpreadSelector struct {
	config *eventmodels.SpreadYAML
}

func NewSpreadSelector(config *eventmodels.SpreadYAML) *SpreadSelector {
	return &SpreadSelector{config: config}
}

func (s *SpreadSelector) SelectSpread(universe *Universe) (*eventmodels.VerticalSpread, error) {
	switch eventmodels.SpreadType(s.config.SpreadType) {
	case eventmodels.SpreadTypeBullPut:
		return s.selectBullPutSpread(universe)
	case eventmodels.SpreadTypeBearCall:
		return s.selectBearCallSpread(universe)
	default:
		return nil, fmt.Errorf("SelectSpread: invalid spread type: %s", s.config.SpreadType)
	}
}

// shortCandidates filters contracts by the configured delta mode. Contracts
// without greeks are skipped.
func (s *SpreadSelector) shortCandidates(contracts []*eventmodels.OptionContract) []*eventmodels.OptionContract {
	var candidates []*eventmodels.OptionContract

	for _, c := range contracts {
		if !c.HasGreeks {
			log.Debugf("shortCandidates: skipping strike %.2f, missing greeks", c.Strike)
			continue
		}

		delta := c.AbsDelta()

		switch eventmodels.DeltaMode(s.config.DeltaMode) {
		case eventmodels.DeltaModeExact:
			if math.Abs(delta-s.config.TargetDelta) < exactDeltaTolerance {
				candidates = append(candidates, c)
			}
		case eventmodels.DeltaModeRange:
			if s.config.MinDelta != nil && delta >= *s.config.MinDelta && delta <= s.config.MaxDelta {
				candidates = append(candidates, c)
			}
		default:
			if delta <= s.config.MaxDelta {
				candidates = append(candidates, c)
			}
		}
	}

	return candidates
}

// orderByTargetDelta sorts candidates so iteration starts at the strike whose
// delta is closest to the target without exceeding it, then walks up in
// delta. When nothing is at or below the target, iteration starts from the
// lowest delta available.
func (s *SpreadSelector) orderByTargetDelta(candidates []*eventmodels.OptionContract) []*eventmodels.OptionContract {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].AbsDelta() < candidates[j].AbsDelta()
	})

	var targetCandidates []*eventmodels.OptionContract
	for _, c := range candidates {
		if c.AbsDelta() <= s.config.TargetDelta {
			targetCandidates = append(targetCandidates, c)
		}
	}

	if len(targetCandidates) == 0 {
		log.Infof("orderByTargetDelta: no strikes with delta <= %.2f, starting with lowest delta available", s.config.TargetDelta)
		return candidates
	}

	closest := targetCandidates[0]
	for _, c := range targetCandidates {
		if math.Abs(s.config.TargetDelta-c.AbsDelta()) < math.Abs(s.config.TargetDelta-closest.AbsDelta()) {
			closest = c
		}
	}

	var starting []*eventmodels.OptionContract
	for _, c := range candidates {
		if c.AbsDelta() >= closest.AbsDelta() {
			starting = append(starting, c)
		}
	}

	return starting
}

type candidateSpread struct {
	spread *eventmodels.VerticalSpread
	credit float64
}

func (s *SpreadSelector) selectBullPutSpread(universe *Universe) (*eventmodels.VerticalSpread, error) {
	puts := universe.Chain.Puts()
	if len(puts) == 0 {
		return nil, fmt.Errorf("selectBullPutSpread: no put contracts in chain")
	}

	log.Infof("selectBullPutSpread: %d puts, underlying $%.2f, target delta %.2f, max delta %.2f, min credit %.0f%% of width",
		len(puts), universe.UnderlyingPrice, s.config.TargetDelta, s.config.MaxDelta, s.config.MinCreditPct*100)

	candidates := s.shortCandidates(puts)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("selectBullPutSpread: no put options match the delta criteria")
	}

	for _, shortPut := range s.orderByTargetDelta(candidates) {
		if shortPut.Bid <= 0 {
			log.Infof("selectBullPutSpread: skipping short put %.2f (delta %.4f), no bid available", shortPut.Strike, shortPut.AbsDelta())
			continue
		}

		log.Infof("selectBullPutSpread: testing short put %.2f (delta %.4f, bid $%.2f)", shortPut.Strike, shortPut.AbsDelta(), shortPut.Bid)

		var preferred, fallback []candidateSpread

		for _, targetWidth := range s.widths() {
			longPut := widestLongBelow(puts, shortPut.Strike, targetWidth)
			if longPut == nil {
				continue
			}

			width := shortPut.Strike - longPut.Strike
			if width < s.config.MinSpreadWidth {
				continue
			}

			credit := shortPut.Bid - longPut.Ask
			if credit <= 0 {
				log.Infof("selectBullPutSpread: rejected width %.2f, negative or zero credit $%.2f", width, credit)
				continue
			}

			if credit < s.config.MinCredit {
				log.Infof("selectBullPutSpread: rejected width %.2f, credit $%.2f below minimum $%.2f", width, credit, s.config.MinCredit)
				continue
			}

			spread := &eventmodels.VerticalSpread{
				Type:       eventmodels.SpreadTypeBullPut,
				Underlying: universe.Chain.Underlying,
				Expiration: shortPut.Expiration,
				ShortLeg:   shortPut,
				LongLeg:    longPut,
			}

			candidate := candidateSpread{spread: spread, credit: credit}

			switch {
			case credit >= width*s.config.MinCreditPct:
				log.Infof("selectBullPutSpread: preferred candidate, credit $%.2f is %.1f%% of width %.2f", credit, credit/width*100, width)
				preferred = append(preferred, candidate)
			case credit >= width*s.config.FallbackCreditPct:
				log.Infof("selectBullPutSpread: fallback candidate, credit $%.2f is %.1f%% of width %.2f", credit, credit/width*100, width)
				fallback = append(fallback, candidate)
			default:
				log.Infof("selectBullPutSpread: rejected width %.2f, credit $%.2f is only %.1f%% of width", width, credit, credit/width*100)
			}
		}

		if selected := pickHighestCredit(preferred, fallback); selected != nil {
			log.Infof("selectBullPutSpread: accepted short %.2f / long %.2f, width %.2f, credit $%.2f, max profit $%.2f, max loss $%.2f, breakeven %.2f",
				selected.ShortLeg.Strike, selected.LongLeg.Strike, selected.Width(), selected.Credit(), selected.MaxProfit(), selected.MaxLoss(), selected.Breakeven())
			return selected, nil
		}
	}

	return nil, fmt.Errorf("selectBullPutSpread: no valid spread after trying all short strikes and widths")
}

// selectBearCallSpread sells the first out-of-the-money call above the
// underlying and buys the next listed strike up.
func (s *SpreadSelector) selectBearCallSpread(universe *Universe) (*eventmodels.VerticalSpread, error) {
	calls := universe.Chain.Calls()
	if len(calls) == 0 {
		return nil, fmt.Errorf("selectBearCallSpread: no call contracts in chain")
	}

	shortIdx := -1
	for i, c := range calls {
		if c.Strike > universe.UnderlyingPrice {
			shortIdx = i
			break
		}
	}

	if shortIdx < 0 {
		return nil, fmt.Errorf("selectBearCallSpread: no out-of-the-money calls above $%.2f", universe.UnderlyingPrice)
	}

	if shortIdx+1 >= len(calls) {
		return nil, fmt.Errorf("selectBearCallSpread: not enough strikes above the short call %.2f", calls[shortIdx].Strike)
	}

	shortCall := calls[shortIdx]
	longCall := calls[shortIdx+1]

	if shortCall.Bid <= 0 {
		return nil, fmt.Errorf("selectBearCallSpread: short call %.2f has no bid", shortCall.Strike)
	}

	spread := &eventmodels.VerticalSpread{
		Type:       eventmodels.SpreadTypeBearCall,
		Underlying: universe.Chain.Underlying,
		Expiration: shortCall.Expiration,
		ShortLeg:   shortCall,
		LongLeg:    longCall,
	}

	credit := spread.Credit()
	if credit < s.config.MinCredit {
		return nil, fmt.Errorf("selectBearCallSpread: credit $%.2f below minimum $%.2f", credit, s.config.MinCredit)
	}

	log.Infof("selectBearCallSpread: accepted short %.2f / long %.2f, width %.2f, credit $%.2f",
		shortCall.Strike, longCall.Strike, spread.Width(), credit)

	return spread, nil
}

func (s *SpreadSelector) widths() []float64 {
	if eventmodels.WidthMode(s.config.WidthMode) == eventmodels.WidthModeFixed && s.config.SpreadWidth > 0 {
		return []float64{s.config.SpreadWidth}
	}

	var widths []float64
	for _, w := range s.config.WidthFallbacks {
		if w < s.config.MinSpreadWidth || w > s.config.MaxSpreadWidth {
			continue
		}

		widths = append(widths, w)
	}

	return widths
}

// widestLongBelow returns the put whose strike sits furthest below the short
// strike without exceeding the target width.
func widestLongBelow(puts []*eventmodels.OptionContract, shortStrike, targetWidth float64) *eventmodels.OptionContract {
	var best *eventmodels.OptionContract
	for _, c := range puts {
		if c.Strike >= shortStrike {
			continue
		}

		if shortStrike-c.Strike > targetWidth {
			continue
		}

		if best == nil || c.Strike < best.Strike {
			best = c
		}
	}

	return best
}

// pickHighestCredit prefers the preferred bucket; the fallback bucket is only
// considered when the preferred one is empty.
func pickHighestCredit(preferred, fallback []candidateSpread) *eventmodels.VerticalSpread {
	bucket := preferred
	if len(bucket) == 0 {
		bucket = fallback
	}

	if len(bucket) == 0 {
		return nil
	}

	best := bucket[0]
	for _, candidate := range bucket[1:] {
		if candidate.credit > best.credit {
			best = candidate
		}
	}

	return best.spread
}
