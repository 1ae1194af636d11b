package entity

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Transaction is a family-specific transaction request handed to the host wallet for signing.
// Amount is expressed in atomic units.
type Transaction struct {
	Family    Family
	Amount    decimal.Decimal
	Recipient string
	Fields    map[string]any
}

// Field returns an extra field and whether it is set.
func (t Transaction) Field(key string) (any, bool) {
	v, ok := t.Fields[key]
	return v, ok
}

// MarshalJSON flattens the transaction so extra fields sit next to family, amount and recipient.
// A fractional amount is an error, never rounded.
func (t Transaction) MarshalJSON() ([]byte, error) {
	if !t.Amount.IsInteger() {
		return nil, fmt.Errorf("transaction amount %s is not a whole number of atomic units", t.Amount)
	}
	out := make(map[string]any, len(t.Fields)+3)
	for k, v := range t.Fields {
		out[k] = v
	}
	out["family"] = t.Family
	out["amount"] = t.Amount.BigInt().String()
	out["recipient"] = t.Recipient
	return json.Marshal(out)
}
