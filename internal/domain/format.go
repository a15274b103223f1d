package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders a dollar amount with thousands separators and two decimals ("$4,000.00")
func FormatUSD(v float64) string {
	return FormatUSDDecimal(decimal.NewFromFloat(v))
}

// FormatUSDDecimal is FormatUSD for values already held as decimals
func FormatUSDDecimal(d decimal.Decimal) string {
	return "$" + groupThousands(d.StringFixed(2))
}

// FormatBalance renders a token balance with grouping and at most three decimals,
// trailing zeros trimmed ("1,234.5").
func FormatBalance(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).Round(3).String())
}

// FormatChange renders a 24h change with an explicit sign for gains ("+1.50%")
func FormatChange(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}

// ShortenAddress trims a wallet address for compact display
func ShortenAddress(addr string) string {
	if len(addr) > 12 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// ExplorerURL returns the etherscan page for an address
func ExplorerURL(addr string) string {
	return "https://etherscan.io/address/" + addr
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + fracPart
}
