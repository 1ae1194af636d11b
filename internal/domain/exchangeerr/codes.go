package exchangeerr

var messages = map[Kind]string{
	KindNonceAcquisition:        "failed to acquire device transaction id",
	KindPayloadRetrieval:        "failed to retrieve payload",
	KindTransactionSignature:    "failed to sign transaction",
	KindSignatureIgnored:        "signature refused",
	KindTransactionCancellation: "failed to cancel transaction",
	KindConfirmation:            "failed to confirm transaction",
	KindInsufficientFunds:       "not enough funds",
	KindAccountListing:          "failed to list accounts",
	KindCurrencyListing:         "failed to list currencies",
	KindUnknownAccount:          "unknown account",
	KindMissingRequiredMemo:     "missing required payin extra id",
	KindAmountMismatch:          "payload amount does not match requested amount",
	KindUnsupportedFamily:       "unsupported blockchain family",
	KindUnsupportedProductType:  "unsupported product type",
	KindHostUIDismissed:         "dismissed by user",
	KindInvalidRequest:          "invalid request",
}

var genericCodes = map[Kind]string{
	KindNonceAcquisition:        "exchange002",
	KindPayloadRetrieval:        "exchange003",
	KindTransactionSignature:    "exchange004",
	KindInsufficientFunds:       "exchange005",
	KindAccountListing:          "exchange006",
	KindCurrencyListing:         "exchange007",
	KindUnknownAccount:          "exchange008",
	KindMissingRequiredMemo:     "exchange009",
	KindTransactionCancellation: "exchange010",
	KindConfirmation:            "exchange011",
	KindAmountMismatch:          "exchange012",
	KindUnsupportedFamily:       "exchange013",
	KindUnsupportedProductType:  "exchange014",
	KindHostUIDismissed:         "exchange015",
	KindInvalidRequest:          "exchange016",
}

var swapCodes = map[Kind]string{
	KindNonceAcquisition:        "swap001",
	KindPayloadRetrieval:        "swap002",
	KindTransactionSignature:    "swap003",
	KindSignatureIgnored:        "swap003Ignored",
	KindInsufficientFunds:       "swap004",
	KindAccountListing:          "swap005",
	KindCurrencyListing:         "swap006",
	KindUnknownAccount:          "swap007",
	KindMissingRequiredMemo:     "swap008",
	KindTransactionCancellation: "swap009",
	KindConfirmation:            "swap010",
	KindAmountMismatch:          "swap011",
	KindUnsupportedFamily:       "swap012",
	KindUnsupportedProductType:  "swap013",
	KindHostUIDismissed:         "swap014",
	KindInvalidRequest:          "swap015",
}

// stepKinds maps each protocol step to the kind its failures are classified as.
var stepKinds = map[Step]Kind{
	StepNonce:            KindNonceAcquisition,
	StepPayload:          KindPayloadRetrieval,
	StepSignature:        KindTransactionSignature,
	StepIgnoredSignature: KindSignatureIgnored,
	StepCheckFunds:       KindInsufficientFunds,
	StepListAccount:      KindAccountListing,
	StepListCurrency:     KindCurrencyListing,
	StepUnknownAccount:   KindUnknownAccount,
	StepPayinExtraID:     KindMissingRequiredMemo,
	StepAmountMismatch:   KindAmountMismatch,
	StepCancel:           KindTransactionCancellation,
	StepConfirm:          KindConfirmation,
	StepValidate:         KindInvalidRequest,
}

// codeFor returns the code of kind in fam's namespace. The empty string means the family has
// no typed error for that kind.
func codeFor(fam Family, kind Kind) string {
	if fam == FamilySwap {
		return swapCodes[kind]
	}
	return genericCodes[kind]
}
