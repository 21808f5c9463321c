// Package money parses and formats dollar amounts entered with shorthand
// notation such as "50k", "2.5M" or "$2,000,000".
package money

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	shorthandPattern = regexp.MustCompile(`^(-?(?:\d+(?:\.\d+)?|\.\d+))([kKmM])$`)
	stripper         = strings.NewReplacer("$", "", ",", "")

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Parse converts user input into a dollar amount. The boolean is false when
// the input is blank, a lone currency symbol, or not a number.
//
// Negative results are returned as-is; whether they are acceptable is up
// to the caller.
func Parse(input string) (float64, bool) {
	s := strings.TrimSpace(stripper.Replace(strings.TrimSpace(input)))
	if s == "" {
		return 0, false
	}

	if m := shorthandPattern.FindStringSubmatch(s); m != nil {
		d, err := decimal.NewFromString(m[1])
		if err != nil {
			return 0, false
		}
		multiplier := thousand
		if strings.EqualFold(m[2], "m") {
			multiplier = million
		}
		f, _ := d.Mul(multiplier).Float64()
		return f, true
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// ParseOptional is Parse for optional fields: nil means "not entered".
func ParseOptional(input string) *float64 {
	v, ok := Parse(input)
	if !ok {
		return nil
	}
	return &v
}

// Format renders amount as "$" plus an English-grouped number. Whole dollars
// are rounded unless includeCents is set, in which case two decimals are
// shown. NaN and infinities render as "$0".
func Format(amount float64, includeCents bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	p := message.NewPrinter(language.English)
	if includeCents {
		return "$" + p.Sprintf("%.2f", amount)
	}
	whole := math.Round(amount)
	if whole == 0 {
		whole = 0 // drop the sign of -0
	}
	return "$" + p.Sprintf("%.0f", whole)
}

// FormatOptional formats a possibly absent amount; nil renders as "$0".
func FormatOptional(amount *float64, includeCents bool) string {
	if amount == nil {
		return "$0"
	}
	return Format(*amount, includeCents)
}
