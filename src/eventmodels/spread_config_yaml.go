package eventmodels

import (
	"fmt"
	"strings"
)

type DeltaMode string

const (
	DeltaModeExact DeltaMode = "exact"
	DeltaModeRange DeltaMode = "range"
	DeltaModeMax   DeltaMode = "max"
)

type WidthMode string

const (
	WidthModeFixed WidthMode = "fixed"
	WidthModeRange WidthMode = "range"
)

type SpreadsConfigYAML struct {
	Spreads []SpreadYAML `yaml:"spreads"`
}

func (c *SpreadsConfigYAML) GetSpread(symbol StockSymbol) (*SpreadYAML, error) {
	sym1 := strings.ToLower(string(symbol))
	for i := range c.Spreads {
		sym2 := strings.ToLower(c.Spreads[i].Symbol)
		if sym1 == sym2 {
			return &c.Spreads[i], nil
		}
	}

	return nil, fmt.Errorf("SpreadsConfigYAML: spread not found for %s", symbol)
}

type SpreadYAML struct {
	Symbol     string `yaml:"symbol"`
	SpreadType string `yaml:"spreadType"`
	Quantity   int    `yaml:"quantity"`

	DeltaMode   string   `yaml:"deltaMode"`
	TargetDelta float64  `yaml:"targetDelta"`
	MinDelta    *float64 `yaml:"minDelta,omitempty"`
	MaxDelta    float64  `yaml:"maxDelta"`

	WidthMode      string    `yaml:"widthMode"`
	SpreadWidth    float64   `yaml:"spreadWidth"`
	MinSpreadWidth float64   `yaml:"minSpreadWidth"`
	MaxSpreadWidth float64   `yaml:"maxSpreadWidth"`
	WidthFallbacks []float64 `yaml:"widthFallbacks,omitempty"`

	MinCreditPct      float64 `yaml:"minCreditPct"`
	FallbackCreditPct float64 `yaml:"fallbackCreditPct"`
	MinCredit         float64 `yaml:"minCredit"`
	EstimatedCredit   float64 `yaml:"estimatedCredit"`

	StopLossMultiple float64 `yaml:"stopLossMultiple"`
	ProfitTargetPct  float64 `yaml:"profitTargetPct"`

	StrikeWindow int `yaml:"strikeWindow"`
	MaxDTE       int `yaml:"maxDTE"`

	EntryTime               string `yaml:"entryTime"`
	CloseBufferMinutes      int    `yaml:"closeBufferMinutes"`
	ForceCloseBufferMinutes int    `yaml:"forceCloseBufferMinutes"`
}

// ApplyDefaults fills unset fields with the strategy's standard parameters.
func (s *SpreadYAML) ApplyDefaults() {
	if s.SpreadType == "" {
		s.SpreadType = string(SpreadTypeBullPut)
	}

	if s.Quantity == 0 {
		s.Quantity = 1
	}

	if s.DeltaMode == "" {
		s.DeltaMode = string(DeltaModeMax)
	}

	if s.TargetDelta == 0 {
		s.TargetDelta = 0.15
	}

	if s.MaxDelta == 0 {
		s.MaxDelta = 0.30
	}

	if s.WidthMode == "" {
		s.WidthMode = string(WidthModeFixed)
	}

	if s.MinSpreadWidth == 0 {
		s.MinSpreadWidth = 1.0
	}

	if s.MaxSpreadWidth == 0 {
		s.MaxSpreadWidth = 5.0
	}

	if s.SpreadWidth == 0 {
		s.SpreadWidth = s.MaxSpreadWidth
	}

	if len(s.WidthFallbacks) == 0 {
		s.WidthFallbacks = []float64{5.0, 4.0, 3.0, 2.0, 1.0}
	}

	if s.MinCreditPct == 0 {
		s.MinCreditPct = 0.20
	}

	if s.FallbackCreditPct == 0 {
		s.FallbackCreditPct = 0.15
	}

	if s.MinCredit == 0 {
		s.MinCredit = 0.10
	}

	if s.EstimatedCredit == 0 {
		s.EstimatedCredit = 0.20
	}

	if s.StopLossMultiple == 0 {
		s.StopLossMultiple = 2.0
	}

	if s.ProfitTargetPct == 0 {
		s.ProfitTargetPct = 0.50
	}

	if s.StrikeWindow == 0 {
		s.StrikeWindow = 20
	}

	if s.EntryTime == "" {
		s.EntryTime = "10:00"
	}

	if s.CloseBufferMinutes == 0 {
		s.CloseBufferMinutes = 30
	}

	if s.ForceCloseBufferMinutes == 0 {
		s.ForceCloseBufferMinutes = 15
	}
}

func (s *SpreadYAML) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("SpreadYAML.Validate: symbol is required")
	}

	if err := SpreadType(s.SpreadType).Validate(); err != nil {
		return fmt.Errorf("SpreadYAML.Validate: %w", err)
	}

	switch DeltaMode(s.DeltaMode) {
	case DeltaModeExact, DeltaModeRange, DeltaModeMax:
	default:
		return fmt.Errorf("SpreadYAML.Validate: invalid delta mode: %s", s.DeltaMode)
	}

	if DeltaMode(s.DeltaMode) == DeltaModeRange && s.MinDelta == nil {
		return fmt.Errorf("SpreadYAML.Validate: minDelta is required for range delta mode")
	}

	switch WidthMode(s.WidthMode) {
	case WidthModeFixed, WidthModeRange:
	default:
		return fmt.Errorf("SpreadYAML.Validate: invalid width mode: %s", s.WidthMode)
	}

	if s.MaxDelta <= 0 || s.MaxDelta > 1 {
		return fmt.Errorf("SpreadYAML.Validate: maxDelta must be in (0, 1], got %.2f", s.MaxDelta)
	}

	if s.TargetDelta > s.MaxDelta {
		return fmt.Errorf("SpreadYAML.Validate: targetDelta %.2f exceeds maxDelta %.2f", s.TargetDelta, s.MaxDelta)
	}

	if s.MinSpreadWidth > s.MaxSpreadWidth {
		return fmt.Errorf("SpreadYAML.Validate: minSpreadWidth %.2f exceeds maxSpreadWidth %.2f", s.MinSpreadWidth, s.MaxSpreadWidth)
	}

	if s.FallbackCreditPct > s.MinCreditPct {
		return fmt.Errorf("SpreadYAML.Validate: fallbackCreditPct %.2f exceeds minCreditPct %.2f", s.FallbackCreditPct, s.MinCreditPct)
	}

	if s.ForceCloseBufferMinutes > s.CloseBufferMinutes {
		return fmt.Errorf("SpreadYAML.Validate: forceCloseBufferMinutes %d exceeds closeBufferMinutes %d", s.ForceCloseBufferMinutes, s.CloseBufferMinutes)
	}

	return nil
}
