package report

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9,.\-]`)

// ParseBRL reads a money value written the Brazilian way ("R$ 1.000,50", "250,00")
// or as a plain JSON number. Unparseable input is zero.
func ParseBRL(v any) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		return parseBRLString(t)
	}
	return decimal.Zero
}

func parseBRLString(s string) decimal.Decimal {
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero
	}

	switch {
	case strings.Contains(s, ","):
		// "1.000,50": dots group thousands, the comma is the decimal mark
		s = strings.ReplaceAll(s, ".", "")
		if i := strings.LastIndex(s, ","); i >= 0 {
			s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Contains(s, "."):
		// "5.000" is five thousand, "12.5" and "0.125" are fractions
		whole, frac, _ := strings.Cut(s, ".")
		whole = strings.TrimPrefix(whole, "-")
		if len(frac) == 3 && len(whole) >= 1 && len(whole) <= 3 && strings.TrimLeft(whole, "0") != "" {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatBRL renders d as "R$ 1.250,50"; negatives become "-R$ 1.250,50".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac := fixed, "00"
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i+1:]
	}
	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
