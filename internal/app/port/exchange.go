package port

import (
	"context"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
)

// AccountResolver resolves host account ids into accounts with their currency metadata.
type AccountResolver interface {
	Resolve(ctx context.Context, accountID string, fam exchangeerr.Family) (entity.ResolvedAccount, error)
	ResolveCurrency(ctx context.Context, currencyID string, fam exchangeerr.Family) (entity.Currency, error)
	// ResolveFamily returns the family transactions of currency must be built with.
	ResolveFamily(ctx context.Context, currency entity.Currency, fam exchangeerr.Family) (entity.Family, error)
}

// Tracker records analytics events. It never fails the caller.
type Tracker interface {
	TrackEvent(ctx context.Context, name string, properties map[string]any)
}

// ExchangeService drives the exchange flows against the host wallet and the backends.
type ExchangeService interface {
	Swap(ctx context.Context, req entity.SwapRequest) (entity.SwapResult, error)
	Sell(ctx context.Context, req entity.SellRequest) (entity.SellResult, error)
	Fund(ctx context.Context, req entity.FundRequest) (entity.FundResult, error)
	TokenApproval(ctx context.Context, req entity.TokenApprovalRequest) (entity.TokenApprovalResult, error)
	RequestAndSignForAccount(ctx context.Context, req entity.RequestAndSignRequest) (entity.RequestAndSignResult, error)
}

// CardStateStore persists card integration flags in host storage.
type CardStateStore interface {
	SetCardIntegrationFlag(ctx context.Context, flag string) error
	CardIntegrationState(ctx context.Context) (entity.CardIntegrationState, error)
}
