// Package money parses user-entered amounts into minor currency units and
// formats minor units for display.
//
// Amounts are always handled as int64 counts of minor units (cents). Floats
// are never used, so totals do not drift.
package money

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned when a string cannot be read as an amount.
// Its text is shown to users as-is.
var ErrInvalidAmount = errors.New("invalid amount, use digits only (e.g. 120 or 120,50)")

// maxUnits is the largest integer part that still fits in int64 after
// scaling by 100.
const maxUnits = (1<<63 - 1) / 100

// ParseAmount converts a locale-ambiguous amount into minor units.
//
// It returns nil, nil for empty or whitespace-only input: "no value" is not
// the same as zero. Separators are resolved as follows:
//   - both "," and "." present: the rightmost one is the decimal separator,
//     the other is a thousands separator and dropped;
//   - only "," present: it is the decimal separator.
//
// Fractions beyond two digits are rounded half up on the third digit.
//
//	ParseAmount("120")      -> 12000
//	ParseAmount("120,50")   -> 12050
//	ParseAmount("1.234,56") -> 123456
//	ParseAmount("1,234.56") -> 123456
//	ParseAmount("1.005")    -> 101
func ParseAmount(s string) (*int64, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, nil
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return nil, ErrInvalidAmount
		}
	}

	s = normalizeSeparators(s)

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return nil, ErrInvalidAmount
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return nil, ErrInvalidAmount
	}

	var units int64
	for _, r := range intPart {
		if units > maxUnits/10 {
			return nil, ErrInvalidAmount
		}
		units = units*10 + int64(r-'0')
	}
	if units > maxUnits {
		return nil, ErrInvalidAmount
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}

	total := units*100 + cents
	if total < 0 {
		return nil, ErrInvalidAmount
	}
	return &total, nil
}

// normalizeSeparators rewrites s so that "." is the only decimal separator
// and thousands separators are gone.
func normalizeSeparators(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.ReplaceAll(s, ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		return strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// allDigits reports whether s consists of ASCII digits only.
// The empty string counts as all digits.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MulQuantity returns minor * qty, or false if the product overflows or
// either operand is negative.
func MulQuantity(minor, qty int64) (int64, bool) {
	if minor < 0 || qty < 0 {
		return 0, false
	}
	if qty != 0 && minor > (1<<63-1)/qty {
		return 0, false
	}
	return minor * qty, true
}

var printer = message.NewPrinter(language.English)

// Format renders minor units as a decimal string with "," thousands
// separators and "." as decimal point, e.g. 123456 -> "1,234.56".
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + printer.Sprintf("%d", minor/100) + "." + twoDigits(minor%100)
}

func twoDigits(n int64) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

// Decimal renders minor units without grouping, e.g. 123456 -> "1234.56".
// Use it for machine-readable output such as CSV.
func Decimal(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + strconv.FormatInt(minor/100, 10) + "." + twoDigits(minor%100)
}
