// Package utils provides common utility functions for fundsheet.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatThousands formats a number with comma thousands separators and the
// given number of decimals. e.g., 1234567.891 with 2 decimals → "1,234,567.89".
func FormatThousands(amount float64, decimals int) string {
	negative := amount < 0
	amount = math.Abs(amount)

	s := fmt.Sprintf("%.*f", decimals, amount)
	intPart := s
	decPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, decPart = s[:i], s[i:]
	}

	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + decPart
	if negative {
		return "-" + out
	}
	return out
}

// FormatCompactMoney formats a large monetary aggregate scaled to millions or
// billions with a unit suffix. e.g., 1927345000 → "1.93B", 19273450 → "19.27M".
// Values below one million keep the plain thousands format.
func FormatCompactMoney(amount float64) string {
	negative := amount < 0
	abs := math.Abs(amount)

	prefix := ""
	if negative {
		prefix = "-"
	}

	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s%sB", prefix, FormatThousands(abs/1e9, 2))
	case abs >= 1e6:
		return fmt.Sprintf("%s%sM", prefix, FormatThousands(abs/1e6, 2))
	default:
		return fmt.Sprintf("%s%s", prefix, FormatThousands(abs, 2))
	}
}

// FormatPct formats a ratio (e.g. 0.1523) as a percentage string ("15.23%").
func FormatPct(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
