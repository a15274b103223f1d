package mockapi

import (
	"github.com/rovshanmuradov/token-dashboard/internal/domain"
)

// DefaultPositions returns the fixture portfolio served by the mock API
func DefaultPositions() []domain.Position {
	return []domain.Position{
		{ID: "eth", Symbol: "ETH", Balance: 2, PriceUSD: domain.PriceOf(2000), ValueUSD: 4000, Change24h: 1.5},
		{ID: "usdc", Symbol: "USDC", Balance: 1500.25, PriceUSD: domain.PriceOf(1), ValueUSD: 1500.25, Change24h: 0},
		{ID: "wbtc", Symbol: "WBTC", Balance: 0.05, PriceUSD: domain.PriceOf(64000), ValueUSD: 3200, Change24h: -2.3},
		{ID: "uni", Symbol: "UNI", Balance: 120, PriceUSD: domain.PriceOf(7.5), ValueUSD: 900, Change24h: 4.2},
		{ID: "link", Symbol: "LINK", Balance: 48.5, ValueUSD: 727.5, Change24h: -0.8},
	}
}
