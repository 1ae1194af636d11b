package service

import (
	"context"
	"testing"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolverHost() *fakeHost {
	host := newFakeHost()
	host.accounts = []entity.Account{
		{ID: "a1", Currency: "bitcoin"},
		{ID: "a2", Currency: "ethereum/erc20/usd_tether__erc20_"},
		{ID: "a3", Currency: "dogecoin"},
	}
	host.currencies["bitcoin"] = entity.Currency{ID: "bitcoin", Family: entity.FamilyBitcoin, Decimals: 8, Type: entity.CryptoCurrencyType}
	host.currencies["ethereum"] = entity.Currency{ID: "ethereum", Family: entity.FamilyEthereum, Decimals: 18, Type: entity.CryptoCurrencyType}
	host.currencies["ethereum/erc20/usd_tether__erc20_"] = entity.Currency{
		ID: "ethereum/erc20/usd_tether__erc20_", Decimals: 6, Type: entity.TokenCurrencyType, Parent: "ethereum",
	}
	return host
}

func TestAccountResolver_Resolve(t *testing.T) {
	host := resolverHost()
	r := NewAccountResolver(host, nopLogger{})

	first, err := r.Resolve(context.Background(), "a1", exchangeerr.FamilyGeneric)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "a1", exchangeerr.FamilyGeneric)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "a1", first.Account.ID)
	assert.Equal(t, int32(8), first.Currency.Decimals)
	// nothing is cached between calls
	assert.Equal(t, 2, host.count("account.list"))
}

func TestAccountResolver_Errors(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		setup     func(h *fakeHost)
		fam       exchangeerr.Family
		wantKind  exchangeerr.Kind
		wantCode  string
	}{
		{
			name:      "unknown account",
			accountID: "missing",
			fam:       exchangeerr.FamilySwap,
			wantKind:  exchangeerr.KindUnknownAccount,
			wantCode:  "swap007",
		},
		{
			name:      "unknown currency",
			accountID: "a3",
			fam:       exchangeerr.FamilyGeneric,
			wantKind:  exchangeerr.KindUnknownAccount,
			wantCode:  "exchange008",
		},
		{
			name:      "account listing fails",
			accountID: "a1",
			setup:     func(h *fakeHost) { h.listAccountsErr = errBoom },
			fam:       exchangeerr.FamilySwap,
			wantKind:  exchangeerr.KindAccountListing,
			wantCode:  "swap005",
		},
		{
			name:      "currency listing fails",
			accountID: "a1",
			setup:     func(h *fakeHost) { h.listCurrencyErr = errBoom },
			fam:       exchangeerr.FamilyGeneric,
			wantKind:  exchangeerr.KindCurrencyListing,
			wantCode:  "exchange007",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := resolverHost()
			if tt.setup != nil {
				tt.setup(host)
			}
			r := NewAccountResolver(host, nopLogger{})

			_, err := r.Resolve(context.Background(), tt.accountID, tt.fam)

			e, ok := exchangeerr.As(err)
			require.True(t, ok, "expected typed error, got %v", err)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestAccountResolver_ResolveFamily(t *testing.T) {
	host := resolverHost()
	r := NewAccountResolver(host, nopLogger{})
	ctx := context.Background()

	fam, err := r.ResolveFamily(ctx, host.currencies["bitcoin"], exchangeerr.FamilyGeneric)
	require.NoError(t, err)
	assert.Equal(t, entity.FamilyBitcoin, fam)
	assert.Zero(t, host.count("currency.list"))

	fam, err = r.ResolveFamily(ctx, host.currencies["ethereum/erc20/usd_tether__erc20_"], exchangeerr.FamilyGeneric)
	require.NoError(t, err)
	assert.Equal(t, entity.FamilyEthereum, fam)

	orphan := entity.Currency{ID: "orphan", Type: entity.TokenCurrencyType}
	_, err = r.ResolveFamily(ctx, orphan, exchangeerr.FamilyGeneric)
	assert.True(t, exchangeerr.Is(err, exchangeerr.KindUnknownAccount))
}
