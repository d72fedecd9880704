package domain

import (
	"math"
	"strconv"
	"strings"
)

// MoneyToFloat converts a free-form currency string to a signed amount.
// Currency symbols, whitespace and thousands separators are stripped; a
// parenthesized or minus-prefixed value is negative (negation is idempotent
// when both appear). Parsing is total: empty or unparseable input comes
// back as exactly zero, never an error.
func MoneyToFloat(value string) float64 {
	cleaned := stripMoneyRunes(value)
	if cleaned == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	if negative {
		return -f
	}
	return f
}

func stripMoneyRunes(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
