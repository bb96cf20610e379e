package utils

import "strings"

// NormalizeTicker canonicalizes a user-supplied ticker symbol: trims
// whitespace and uppercases. Index symbols (^GSPC) and suffixed tickers
// (BMW.DE, BTC-USD) pass through unchanged apart from casing.
func NormalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsIndexSymbol reports whether a symbol names a market index in Yahoo
// Finance notation (caret prefix, e.g. ^GSPC, ^NSEI).
func IsIndexSymbol(symbol string) bool {
	return strings.HasPrefix(symbol, "^")
}
