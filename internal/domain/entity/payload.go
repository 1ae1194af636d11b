package entity

import "github.com/shopspring/decimal"

// PayloadRequest is everything a backend gateway needs to issue a signed payload.
type PayloadRequest struct {
	Provider            string
	DeviceTransactionID string
	QuoteID             string
	ProductType         ProductType

	FromAccount ResolvedAccount
	ToAccount   *ResolvedAccount

	// FromAmount is expressed in human units.
	FromAmount decimal.Decimal
	// FromAmountAtomic is FromAmount in the source currency's smallest denomination.
	FromAmountAtomic decimal.Decimal

	ToFiat       string
	Rate         *float64
	ToNewTokenID string
}

// Payload is the backend-issued signed instruction blob.
type Payload struct {
	ID                         string
	BinaryPayload              []byte
	Signature                  []byte
	PayinAddress               string
	PayinExtraID               string
	ExtraTransactionParameters string
	// Amount is set by sell/fund backends that echo the remitted amount.
	Amount *decimal.Decimal
}

// ConfirmRequest marks a backend record as accepted after broadcast.
type ConfirmRequest struct {
	Provider      string
	ID            string
	TransactionID string
	AppVersion    string
}

// CancelRequest marks a backend record as cancelled.
type CancelRequest struct {
	Provider     string
	ID           string
	StatusCode   string
	ErrorMessage string
}
