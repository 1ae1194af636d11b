// Package txbuilder shapes a generic transfer into the transaction object a host wallet
// expects for a given blockchain family.
package txbuilder

import (
	"fmt"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/shopspring/decimal"
)

// Params is the family-independent input of Build.
type Params struct {
	Family    entity.Family
	Amount    decimal.Decimal // atomic units
	Recipient string
	// CustomFeeConfig is spread into the transaction. It is never mutated.
	CustomFeeConfig            map[string]any
	PayinExtraID               string
	ExtraTransactionParameters string
}

// Build returns the transaction for p.Family. Failures are *exchangeerr.Error values with an
// empty family; callers reclassify them with their own code namespace.
func Build(p Params) (entity.Transaction, error) {
	if !p.Amount.IsInteger() {
		return entity.Transaction{}, &exchangeerr.Error{
			Kind:  exchangeerr.KindInvalidRequest,
			Step:  exchangeerr.StepValidate,
			Cause: fmt.Errorf("amount %s is not a whole number of atomic units", p.Amount),
		}
	}
	fees := copyFees(p.CustomFeeConfig)

	switch p.Family {
	case entity.FamilyEthereum, entity.FamilyEVM:
		return withoutGasLimit(p, fees)
	case entity.FamilyBitcoin:
		delete(fees, "utxoStrategy")
		return defaultShape(p, fees), nil
	case entity.FamilyCardano, entity.FamilyPolkadot, entity.FamilyTezos:
		return modeSend(p, fees), nil
	case entity.FamilyCosmos:
		return cosmos(p, fees), nil
	case entity.FamilyStellar:
		return stellar(p, fees)
	case entity.FamilyRipple:
		return ripple(p, fees)
	case entity.FamilyHedera:
		return hedera(p, fees), nil
	case entity.FamilyTon:
		return ton(p, fees), nil
	case entity.FamilyAlgorand, entity.FamilyAptos, entity.FamilyCelo, entity.FamilyElrond,
		entity.FamilyFilecoin, entity.FamilyNear, entity.FamilySolana, entity.FamilySui,
		entity.FamilyTron, entity.FamilyVeChain, entity.FamilyMultiSign:
		return defaultShape(p, fees), nil
	default:
		return entity.Transaction{}, &exchangeerr.Error{
			Kind:  exchangeerr.KindUnsupportedFamily,
			Step:  exchangeerr.StepBuild,
			Cause: fmt.Errorf("no transaction shape for family %q", p.Family),
		}
	}
}

// Supports reports whether Build knows how to shape transactions for f.
func Supports(f entity.Family) bool {
	for _, known := range entity.AllFamilies() {
		if known == f {
			return true
		}
	}
	return false
}

func copyFees(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func missingMemo(f entity.Family, reason string) error {
	return &exchangeerr.Error{
		Kind:  exchangeerr.KindMissingRequiredMemo,
		Step:  exchangeerr.StepPayinExtraID,
		Cause: fmt.Errorf("%s: %s", f, reason),
	}
}
