package port

import (
	"context"
	"fmt"

	"exchange_sdk/internal/domain/entity"
)

// StartExchangeParams is sent to the host to acquire a device transaction id.
type StartExchangeParams struct {
	ExchangeType  entity.ExchangeType
	Provider      string
	FromAccountID string
	ToAccountID   string
	TokenCurrency string
}

// CompleteExchangeParams asks the host to verify the payload and sign the transaction on device.
type CompleteExchangeParams struct {
	Provider      string
	FromAccountID string
	ToAccountID   string
	Transaction   entity.Transaction
	BinaryPayload []byte
	Signature     []byte
	FeeStrategy   entity.FeeStrategy
	// ExchangeID is the backend-issued swap, sell or order id.
	ExchangeID   string
	Rate         *float64
	ToNewTokenID string
}

// ErrorReport is forwarded to the host's exchange error channel.
type ErrorReport struct {
	Code    string `json:"code"`
	Step    string `json:"step"`
	Kind    string `json:"name"`
	Message string `json:"message"`
}

// HostWallet is the capability the host application exposes to the SDK.
type HostWallet interface {
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	ListCurrencies(ctx context.Context, currencyIDs []string) ([]entity.Currency, error)

	StartExchange(ctx context.Context, params StartExchangeParams) (string, error)
	CompleteSwap(ctx context.Context, params CompleteExchangeParams) (string, error)
	CompleteSell(ctx context.Context, params CompleteExchangeParams) (string, error)
	CompleteFund(ctx context.Context, params CompleteExchangeParams) (string, error)
	ReportError(ctx context.Context, report ErrorReport) error

	RequestAccount(ctx context.Context, currencyIDs []string) (entity.Account, error)
	SignAndBroadcast(ctx context.Context, accountID string, tx entity.Transaction) (string, error)

	// StorageGet returns ok=false when the key has never been written.
	StorageGet(ctx context.Context, key string) (value string, ok bool, err error)
	StorageSet(ctx context.Context, key, value string) error

	UserID(ctx context.Context) (string, error)
	WalletInfo(ctx context.Context) (entity.WalletInfo, error)
}

// HostError is a failure reported by the host wallet, identified by a stable name.
type HostError struct {
	Name    string
	Message string
	Code    int
}

func (e *HostError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("host error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ErrorName returns the host error name.
func (e *HostError) ErrorName() string {
	return e.Name
}
