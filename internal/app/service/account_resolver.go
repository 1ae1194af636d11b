package service

import (
	"context"
	"fmt"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/samber/lo"
)

type accountResolver struct {
	host   port.HostWallet
	logger port.Logger
}

// NewAccountResolver creates a resolver that re-reads the host state on every call.
func NewAccountResolver(host port.HostWallet, l port.Logger) port.AccountResolver {
	return &accountResolver{host: host, logger: l}
}

// Resolve implements port.AccountResolver.
func (r *accountResolver) Resolve(ctx context.Context, accountID string, fam exchangeerr.Family) (entity.ResolvedAccount, error) {
	accounts, err := r.host.ListAccounts(ctx)
	if err != nil {
		r.logger.Error("Failed to list accounts", "accountId", accountID, "error", err)
		return entity.ResolvedAccount{}, exchangeerr.Classify(err, exchangeerr.StepListAccount, fam)
	}

	account, found := lo.Find(accounts, func(a entity.Account) bool {
		return a.ID == accountID
	})
	if !found {
		r.logger.Warn("Account not found", "accountId", accountID, "accounts", len(accounts))
		return entity.ResolvedAccount{}, exchangeerr.Classify(
			fmt.Errorf("account %s not found", accountID), exchangeerr.StepUnknownAccount, fam)
	}

	currency, err := r.ResolveCurrency(ctx, account.Currency, fam)
	if err != nil {
		return entity.ResolvedAccount{}, err
	}

	r.logger.Debug("Account resolved", "accountId", accountID, "currency", currency.ID, "family", currency.Family)
	return entity.ResolvedAccount{Account: account, Currency: currency}, nil
}

// ResolveCurrency implements port.AccountResolver. An empty currency list is reported as an
// unknown account since it means the account references a currency the host does not know.
func (r *accountResolver) ResolveCurrency(ctx context.Context, currencyID string, fam exchangeerr.Family) (entity.Currency, error) {
	currencies, err := r.host.ListCurrencies(ctx, []string{currencyID})
	if err != nil {
		r.logger.Error("Failed to list currencies", "currencyId", currencyID, "error", err)
		return entity.Currency{}, exchangeerr.Classify(err, exchangeerr.StepListCurrency, fam)
	}
	if len(currencies) == 0 {
		r.logger.Warn("Currency not found", "currencyId", currencyID)
		return entity.Currency{}, exchangeerr.Classify(
			fmt.Errorf("currency %s not found", currencyID), exchangeerr.StepUnknownAccount, fam)
	}
	return currencies[0], nil
}

// ResolveFamily implements port.AccountResolver.
func (r *accountResolver) ResolveFamily(ctx context.Context, currency entity.Currency, fam exchangeerr.Family) (entity.Family, error) {
	if !currency.IsToken() {
		return currency.Family, nil
	}
	if currency.Parent == "" {
		return "", exchangeerr.Classify(
			fmt.Errorf("token %s has no parent currency", currency.ID), exchangeerr.StepUnknownAccount, fam)
	}
	parent, err := r.ResolveCurrency(ctx, currency.Parent, fam)
	if err != nil {
		return "", err
	}
	return parent.Family, nil
}
