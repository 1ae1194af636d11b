package exchangeerr

import "errors"

const (
	// HostDrawerClosed is the host error name raised when the user closes the signing drawer.
	HostDrawerClosed = "DrawerClosedError"
	// HostDisabledBroadcast is the host error name raised by development hosts that never broadcast.
	HostDisabledBroadcast = "DisabledTransactionBroadcastError"
	// HostRefusedOnDevice is raised when the user rejects the transaction on the device.
	HostRefusedOnDevice = "TransactionRefusedOnDevice"
)

// named is implemented by host-originated errors that carry a stable error name.
type named interface {
	ErrorName() string
}

// HostErrorName returns the host error name found in err's chain.
func HostErrorName(err error) string {
	var n named
	if errors.As(err, &n) {
		return n.ErrorName()
	}
	return ""
}

// IsDisabledBroadcast reports whether err is the host's disabled-broadcast escape hatch.
func IsDisabledBroadcast(err error) bool {
	return HostErrorName(err) == HostDisabledBroadcast
}

// Classify maps a raw failure observed at step into a typed error of family fam.
// The returned error is the raw one when the family maps the step to no typed error.
func Classify(raw error, step Step, fam Family) error {
	if raw == nil {
		return nil
	}
	if existing, ok := As(raw); ok {
		return existing.in(fam)
	}
	if HostErrorName(raw) == HostDrawerClosed {
		e := New(KindHostUIDismissed, step, fam, raw)
		e.Handled = true
		return e
	}

	kind, ok := stepKinds[step]
	if !ok {
		return raw
	}
	code := codeFor(fam, kind)
	if code == "" {
		return raw
	}
	return &Error{
		Kind:   kind,
		Step:   step,
		Family: fam,
		Code:   code,
		Cause:  raw,
	}
}
