package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToAtomic converts a human-readable amount to the currency's smallest denomination.
// Example: human=0.00000001, decimals=8 => 1
func ToAtomic(human decimal.Decimal, decimals int32) decimal.Decimal {
	return human.Shift(decimals)
}

// FromAtomic converts an amount in smallest denomination back to human units.
func FromAtomic(atomic decimal.Decimal, decimals int32) decimal.Decimal {
	return atomic.Shift(-decimals)
}

// FormatAtomic renders an atomic amount as a human-readable string without trailing zeros.
// Example: atomic=1234500000000000000, decimals=18 => "1.2345"
func FormatAtomic(atomic decimal.Decimal, decimals int32) string {
	return FromAtomic(atomic, decimals).String()
}

// AtomicBigInt returns the atomic amount as a big.Int, failing when it still has a fractional part.
func AtomicBigInt(atomic decimal.Decimal) (*big.Int, error) {
	if !atomic.IsInteger() {
		return nil, fmt.Errorf("amount %s has more precision than the currency allows", atomic.String())
	}
	return atomic.BigInt(), nil
}

// ParseAmount parses a decimal amount and rejects negative values.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return d, nil
}
