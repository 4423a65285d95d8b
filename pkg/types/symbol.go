package types

import "strings"

var symbolSeparators = strings.NewReplacer("-", "", "/", "", "_", "", ":", "")

// NormalizeSymbol maps venue spellings such as "BTC-USDT", "btc/usdt" and
// "BTCUSDT" to one canonical form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(symbolSeparators.Replace(strings.TrimSpace(symbol)))
}

func SameSymbol(a, b string) bool {
	return NormalizeSymbol(a) == NormalizeSymbol(b)
}
