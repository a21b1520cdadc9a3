package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrAmountOutOfRange reports an amount CheckAmount rejects.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Amounts are bounded before any arithmetic: huge exponents make rounding and
// formatting expand the coefficient digit by digit.
const maxAmountExponent = 20

var maxAmount = decimal.New(1, 15)

// BoundedExponent reports whether d's decimal exponent is within ±20.
func BoundedExponent(d decimal.Decimal) bool {
	e := d.Exponent()
	return e <= maxAmountExponent && e >= -maxAmountExponent
}

// CheckAmount rejects amounts with an unbounded exponent or a magnitude above 1e15.
func CheckAmount(d decimal.Decimal) error {
	if !BoundedExponent(d) || d.Abs().GreaterThan(maxAmount) {
		return ErrAmountOutOfRange
	}
	return nil
}

// RoundMoney rounds d to cents, half away from zero. Every monetary value the
// engine produces goes through here at the point it is produced.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// MinDecimal returns the smaller of a and b.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
