package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionJSON(t *testing.T) {
	raw := `[{"id":"1","symbol":"ETH","balance":2,"valueUSD":4000,"change24h":1.5},
	         {"id":"2","symbol":"USDC","balance":1500.25,"priceUSD":1,"valueUSD":1500.25,"change24h":0}]`

	var positions []Position
	require.NoError(t, json.Unmarshal([]byte(raw), &positions))
	require.Len(t, positions, 2)

	_, ok := positions[0].Price()
	assert.False(t, ok, "priceUSD is optional")

	price, ok := positions[1].Price()
	assert.True(t, ok)
	assert.Equal(t, 1.0, price)

	out, err := json.Marshal(positions[0])
	require.NoError(t, err)
	assert.NotContains(t, string(out), "priceUSD")
}

func TestPositionDirection(t *testing.T) {
	assert.Equal(t, DirectionUp, Position{Change24h: 0.01}.Direction())
	assert.Equal(t, DirectionDown, Position{Change24h: -3}.Direction())
	assert.Equal(t, DirectionFlat, Position{}.Direction())
}

func TestTotalValueUSD(t *testing.T) {
	positions := []Position{
		{ID: "1", ValueUSD: 0.1},
		{ID: "2", ValueUSD: 0.2},
	}
	assert.Equal(t, "0.3", TotalValueUSD(positions).String())
	assert.True(t, TotalValueUSD(nil).IsZero())
}

func TestWeightedChange24h(t *testing.T) {
	positions := []Position{
		{ID: "1", ValueUSD: 300, Change24h: 10},
		{ID: "2", ValueUSD: 100, Change24h: -10},
	}
	assert.Equal(t, "5", WeightedChange24h(positions).String())
	assert.True(t, WeightedChange24h([]Position{{ValueUSD: 0, Change24h: 4}}).IsZero())
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"usd small", FormatUSD(12.5), "$12.50"},
		{"usd grouped", FormatUSD(4000), "$4,000.00"},
		{"usd millions", FormatUSD(1234567.891), "$1,234,567.89"},
		{"usd negative", FormatUSD(-1234.5), "$-1,234.50"},
		{"balance integer", FormatBalance(2), "2"},
		{"balance grouped", FormatBalance(1234.5), "1,234.5"},
		{"balance rounded", FormatBalance(0.123456), "0.123"},
		{"change positive", FormatChange(1.5), "+1.50%"},
		{"change negative", FormatChange(-2.345), "-2.35%"},
		{"change flat", FormatChange(0), "0.00%"},
		{"address short", ShortenAddress("0x123"), "0x123"},
		{"address long", ShortenAddress("0xMockedAddress"), "0xMock...ress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
