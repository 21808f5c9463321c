package api

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/money"
)

// Amount is a money input. It decodes from a JSON number, from a shorthand
// string such as "50k" or "$2.5M", or from null. Text that is not a money
// amount is kept so Resolve can report it against the right field.
type Amount struct {
	value   float64
	set     bool
	raw     string
	invalid bool
}

// AmountOf returns an Amount holding v.
func AmountOf(v float64) Amount {
	return Amount{value: v, set: true}
}

// AmountText parses s with money.Parse. Blank text is treated as absent.
func AmountText(s string) Amount {
	if v, ok := money.Parse(s); ok {
		return Amount{value: v, set: true, raw: s}
	}
	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return Amount{}
	}
	return Amount{raw: s, invalid: true}
}

// IsSet reports whether a usable value was supplied.
func (a Amount) IsSet() bool {
	return a.set
}

// Resolve returns the value, nil when absent, or a ValidationError naming
// field when the input was not a money amount.
func (a Amount) Resolve(field string) (*float64, error) {
	if a.invalid {
		return nil, &models.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a money amount", a.raw)}
	}
	if !a.set {
		return nil, nil
	}
	v := a.value
	return &v, nil
}

func (a Amount) String() string {
	switch {
	case a.set:
		return money.Format(a.value, false)
	case a.raw != "":
		return a.raw
	default:
		return "<none>"
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := gojson.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}

	var v float64
	if err := gojson.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("money amount must be a number or string: %w", err)
	}
	*a = AmountOf(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.set:
		return gojson.Marshal(a.value)
	case a.raw != "":
		return gojson.Marshal(a.raw)
	default:
		return []byte("null"), nil
	}
}
