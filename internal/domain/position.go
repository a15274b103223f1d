package domain

import (
	"github.com/shopspring/decimal"
)

// Position is a single token holding as served by the positions API.
// Values are immutable once fetched; a refresh produces a new slice.
type Position struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Balance   float64  `json:"balance"`
	PriceUSD  *float64 `json:"priceUSD,omitempty"`
	ValueUSD  float64  `json:"valueUSD"`
	Change24h float64  `json:"change24h"`
}

// Direction describes the sign of a 24h change
type Direction int

const (
	DirectionFlat Direction = iota
	DirectionUp
	DirectionDown
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "flat"
	}
}

// Price returns the unit price when the API supplied one
func (p Position) Price() (float64, bool) {
	if p.PriceUSD == nil {
		return 0, false
	}
	return *p.PriceUSD, true
}

// Direction reports whether the position went up, down or stayed flat over 24h
func (p Position) Direction() Direction {
	switch {
	case p.Change24h > 0:
		return DirectionUp
	case p.Change24h < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// TotalValueUSD sums the USD value of all positions without float drift
func TotalValueUSD(positions []Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(decimal.NewFromFloat(p.ValueUSD))
	}
	return total
}

// WeightedChange24h returns the value-weighted 24h change of the portfolio in percent.
// Zero is returned for an empty or zero-valued portfolio.
func WeightedChange24h(positions []Position) decimal.Decimal {
	total := TotalValueUSD(positions)
	if total.IsZero() {
		return decimal.Zero
	}

	weighted := decimal.Zero
	for _, p := range positions {
		weighted = weighted.Add(decimal.NewFromFloat(p.ValueUSD).Mul(decimal.NewFromFloat(p.Change24h)))
	}
	return weighted.Div(total)
}

// PriceOf is a helper for building positions with a known price
func PriceOf(v float64) *float64 {
	return &v
}
