package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount in minor units (cents). All ledger arithmetic
// happens on this type; floats never enter the accumulation path.
type Amount int64

var ErrInvalidAmount = errors.New("invalid amount")

var centFactor = decimal.NewFromInt(100)

// Parse converts a decimal string like "12.34" into an Amount. Values with
// more than two decimal places are rejected rather than silently rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return FromDecimal(d)
}

// FromDecimal converts a decimal value into an Amount.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Mul(centFactor)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %s has sub-cent precision", ErrInvalidAmount, d)
	}

	return Amount(cents.IntPart()), nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String renders the amount with exactly two decimal places, e.g. "12.34".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON emits the amount as a string-encoded decimal. The legacy wire
// format used raw JSON numbers; strings avoid float precision loss.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a string-encoded decimal or, for compatibility
// with older clients, a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}

	amt, err := FromDecimal(d)
	if err != nil {
		return err
	}

	*a = amt

	return nil
}
