package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		human    string
		decimals int32
		atomic   string
	}{
		{"one satoshi", "0.00000001", 8, "1"},
		{"one ether", "1", 18, "1000000000000000000"},
		{"fractional usdc", "12.345678", 6, "12345678"},
		{"no decimals", "42", 0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			human := decimal.RequireFromString(tt.human)

			atomic := ToAtomic(human, tt.decimals)
			assert.Equal(t, tt.atomic, atomic.String())

			back := FromAtomic(atomic, tt.decimals)
			assert.True(t, back.Equal(human), "got %s, want %s", back, human)
		})
	}
}

func TestFormatAtomic(t *testing.T) {
	atomic := decimal.RequireFromString("1234500000000000000")
	assert.Equal(t, "1.2345", FormatAtomic(atomic, 18))
	assert.Equal(t, "0", FormatAtomic(decimal.Zero, 18))
}

func TestAtomicBigInt(t *testing.T) {
	v, err := AtomicBigInt(decimal.RequireFromString("1000"))
	require.NoError(t, err)
	assert.Equal(t, "1000", v.String())

	_, err = AtomicBigInt(decimal.RequireFromString("0.5"))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("0.00000001")
	require.NoError(t, err)
	assert.Equal(t, "0.00000001", d.String())

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
