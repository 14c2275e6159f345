// Package format converts between raw amounts and their display text. The
// calculation packages never see strings; everything textual passes through
// here.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if text, ok := nonFinite(amount); ok {
		return text
	}
	rounded := decimal.NewFromFloat(amount).Round(constants.CurrencyPlaces)
	formatted := groupThousands(rounded.Abs().StringFixed(constants.CurrencyPlaces))
	if rounded.IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if text, ok := nonFinite(amount); ok {
		return text
	}
	rounded := decimal.NewFromFloat(amount).Round(constants.CurrencyPlaces)
	formatted := groupThousands(rounded.Abs().StringFixed(constants.CurrencyPlaces))
	if rounded.IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// Number returns the value rounded to a whole number with thousands separators (e.g., "300,000").
func Number(value float64) string {
	if text, ok := nonFinite(value); ok {
		return text
	}
	return printer.Sprintf("%d", int64(math.Round(value)))
}

// Percent returns a percentage with up to two decimals (e.g., "6.5%").
func Percent(value float64) string {
	if text, ok := nonFinite(value); ok {
		return text + "%"
	}
	return decimal.NewFromFloat(value).Round(constants.CurrencyPlaces).String() + "%"
}

// ParseCurrency converts user text such as "$300,000.50" into a number. All
// characters other than digits, '.' and '-' are dropped and the longest
// leading number is used, so "1.2.3" reads as 1.2 and "100-200" as 100. Text
// with no leading number yields 0.
func ParseCurrency(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	return parseOrZero(cleaned)
}

// ParseNumberInput converts comma-grouped input such as "300,000" into a
// number, yielding 0 when no leading number remains.
func ParseNumberInput(value string) float64 {
	return parseOrZero(strings.TrimSpace(strings.ReplaceAll(value, ",", "")))
}

func parseOrZero(value string) float64 {
	prefix := numericPrefix(value)
	if prefix == "" {
		return 0
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// numericPrefix returns the longest prefix of value shaped like an optionally
// signed decimal number with at least one digit, or "".
func numericPrefix(value string) string {
	i := 0
	if i < len(value) && (value[i] == '-' || value[i] == '+') {
		i++
	}
	digits := 0
	for i < len(value) && isDigit(value[i]) {
		i++
		digits++
	}
	end := i
	if i < len(value) && value[i] == '.' {
		i++
		for i < len(value) && isDigit(value[i]) {
			i++
			digits++
		}
		end = i
	}
	if digits == 0 {
		return ""
	}
	prefix := strings.TrimSuffix(value[:end], ".")
	sign := ""
	switch prefix[0] {
	case '-':
		sign, prefix = "-", prefix[1:]
	case '+':
		prefix = prefix[1:]
	}
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	}
	return sign + prefix
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// nonFinite renders infinities and NaN, which the decimal type cannot hold.
func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	}
	return "", false
}

func groupThousands(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = "." + parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + decPart
}
