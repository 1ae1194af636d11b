package exchangeerr

import (
	"errors"
	"fmt"
)

// Step is the protocol step at which a failure happened.
type Step string

const (
	StepNonce            Step = "NONCE"
	StepPayload          Step = "PAYLOAD"
	StepSignature        Step = "SIGNATURE"
	StepIgnoredSignature Step = "IGNORED_SIGNATURE"
	StepCheckFunds       Step = "CHECK_FUNDS"
	StepListAccount      Step = "LIST_ACCOUNT"
	StepListCurrency     Step = "LIST_CURRENCY"
	StepUnknownAccount   Step = "UNKNOWN_ACCOUNT"
	StepPayinExtraID     Step = "PAYIN_EXTRA_ID"
	StepAmountMismatch   Step = "AMOUNT_MISMATCH"
	StepCancel           Step = "CANCEL"
	StepConfirm          Step = "CONFIRM"
	// StepBuild covers transaction construction failures that are not memo related.
	StepBuild Step = "BUILD"
	// StepValidate rejects requests before the host or backend is contacted.
	StepValidate Step = "VALIDATE"
)

// Kind is the abstract failure category.
type Kind string

const (
	KindNonceAcquisition        Kind = "NonceAcquisition"
	KindPayloadRetrieval        Kind = "PayloadRetrieval"
	KindTransactionSignature    Kind = "TransactionSignature"
	KindSignatureIgnored        Kind = "SignatureIgnored"
	KindTransactionCancellation Kind = "TransactionCancellation"
	KindConfirmation            Kind = "Confirmation"
	KindInsufficientFunds       Kind = "InsufficientFunds"
	KindAccountListing          Kind = "AccountListing"
	KindCurrencyListing         Kind = "CurrencyListing"
	KindUnknownAccount          Kind = "UnknownAccount"
	KindMissingRequiredMemo     Kind = "MissingRequiredMemo"
	KindAmountMismatch          Kind = "AmountMismatch"
	KindUnsupportedFamily       Kind = "UnsupportedFamily"
	KindUnsupportedProductType  Kind = "UnsupportedProductType"
	KindHostUIDismissed         Kind = "HostUIDismissed"
	KindInvalidRequest          Kind = "InvalidRequest"
)

// Family selects the code namespace errors are reported with.
type Family string

const (
	FamilyGeneric Family = "generic"
	FamilySwap    Family = "swap"
)

// ParseFamily maps a configuration value to a Family, defaulting to FamilyGeneric.
func ParseFamily(s string) Family {
	if Family(s) == FamilySwap {
		return FamilySwap
	}
	return FamilyGeneric
}

// Error is the single typed failure produced by the exchange flows.
type Error struct {
	Kind   Kind
	Step   Step
	Family Family
	Code   string
	// Handled errors were already surfaced to the user by the host and must not be reported again.
	Handled bool
	Cause   error
	// Prior is the failure that triggered a compensating call, set on cancellation errors.
	Prior error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s [%s] %s", e.Code, e.Step, describe(e.Kind))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Prior != nil {
		msg += " (after: " + e.Prior.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	if e.Prior != nil {
		errs = append(errs, e.Prior)
	}
	return errs
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindInsufficientFunds}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Step == "" || t.Step == e.Step)
}

// New builds a typed error for failures raised by the SDK itself.
func New(kind Kind, step Step, fam Family, cause error) *Error {
	return &Error{
		Kind:   kind,
		Step:   step,
		Family: fam,
		Code:   codeFor(fam, kind),
		Cause:  cause,
	}
}

// NewCancel wraps a failed compensating cancel call. The cancel failure is the primary cause,
// the failure that triggered the cancel is kept as Prior.
func NewCancel(cancelErr, prior error, fam Family) *Error {
	e := New(KindTransactionCancellation, StepCancel, fam, cancelErr)
	e.Prior = prior
	return e
}

// in returns e recoded for fam. e itself is returned when it already belongs to fam.
func (e *Error) in(fam Family) *Error {
	if e.Family == fam && e.Code != "" {
		return e
	}
	out := *e
	out.Family = fam
	out.Code = codeFor(fam, e.Kind)
	return &out
}

// As returns the typed error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries a typed error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// ShouldReport reports whether err must be forwarded to the host's error channel.
func ShouldReport(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	return !e.Handled
}

func describe(k Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return string(k)
}
