package money

// Conversion between abbreviated currency display strings ("$1.2K", "-$430")
// and numeric values. Parse reports unparseable input as an invalid
// NullDecimal so callers can tell "no value" apart from zero.

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	nonNumeric = regexp.MustCompile(`[^\d.KMB,]`)

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// unit suffixes in the order they are looked up; the first one present wins
var units = []struct {
	suffix     string
	multiplier decimal.Decimal
}{
	{"K", thousand},
	{"M", million},
	{"B", billion},
}

// Parse decodes a currency display string such as "$1.2K", "-$430" or "$3,100".
// "", "0" and "-" decode to zero. A result with Valid=false means the text
// could not be decoded.
func Parse(text string) decimal.NullDecimal {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" || text == "-" {
		return decimal.NewNullDecimal(decimal.Zero)
	}

	negative := strings.HasPrefix(text, "-") || strings.HasPrefix(text, "$-")

	clean := nonNumeric.ReplaceAllString(strings.ReplaceAll(text, "-", ""), "")

	multiplier := decimal.NewFromInt(1)
	for _, u := range units {
		if strings.Contains(clean, u.suffix) {
			multiplier = u.multiplier
			clean = strings.ReplaceAll(clean, u.suffix, "")
			break
		}
	}

	clean = strings.ReplaceAll(clean, ",", "")
	value, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.NullDecimal{}
	}

	value = value.Mul(multiplier)
	if negative {
		value = value.Neg()
	}
	return decimal.NewNullDecimal(value)
}

// ParseFloat is Parse for callers that work in float64.
func ParseFloat(text string) (float64, bool) {
	v := Parse(text)
	if !v.Valid {
		return 0, false
	}
	return v.Decimal.InexactFloat64(), true
}

// Format renders a value in the same display convention the site uses:
// the largest fitting unit with one decimal, whole dollars below 1K, and the
// sign placed before the currency symbol. Zero and invalid values give "$0".
func Format(v decimal.NullDecimal) string {
	if !v.Valid || v.Decimal.IsZero() {
		return "$0"
	}

	abs := v.Decimal.Abs()

	var formatted string
	switch {
	case abs.GreaterThanOrEqual(billion):
		formatted = "$" + abs.Div(billion).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(million):
		formatted = "$" + abs.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		formatted = "$" + abs.Div(thousand).StringFixed(1) + "K"
	default:
		formatted = "$" + abs.StringFixed(0)
	}

	if v.Decimal.IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// FormatFloat is Format for a plain float64.
func FormatFloat(f float64) string {
	return Format(decimal.NewNullDecimal(decimal.NewFromFloat(f)))
}

// Sum adds every parseable value in texts. The second result is the number
// of texts that could not be decoded and were left out.
func Sum(texts ...string) (decimal.Decimal, int) {
	total := decimal.Zero
	skipped := 0
	for _, t := range texts {
		v := Parse(t)
		if !v.Valid {
			skipped++
			continue
		}
		total = total.Add(v.Decimal)
	}
	return total, skipped
}
