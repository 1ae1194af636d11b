package entity

import "github.com/shopspring/decimal"

// CurrencyType distinguishes native chain currencies from tokens issued on a parent chain.
type CurrencyType string

const (
	CryptoCurrencyType CurrencyType = "CryptoCurrency"
	TokenCurrencyType  CurrencyType = "TokenCurrency"
)

// Account is a read-only snapshot of a host wallet account.
// Balances are expressed in the currency's atomic unit.
type Account struct {
	ID               string          `json:"id"`
	Name             string          `json:"name,omitempty"`
	Address          string          `json:"address"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	SpendableBalance decimal.Decimal `json:"spendableBalance"`
	ParentAccountID  string          `json:"parentAccountId,omitempty"`
}

// Currency describes a currency known by the host wallet.
// For a TokenCurrency, Family is not authoritative: the parent currency's family must be used
// when building transactions.
type Currency struct {
	ID       string       `json:"id"`
	Ticker   string       `json:"ticker,omitempty"`
	Name     string       `json:"name,omitempty"`
	Family   Family       `json:"family"`
	Decimals int32        `json:"decimals"`
	Type     CurrencyType `json:"type"`
	Parent   string       `json:"parent,omitempty"`
	Contract string       `json:"contract,omitempty"`
}

// IsToken reports whether the currency is a token living on a parent chain.
func (c Currency) IsToken() bool {
	return c.Type == TokenCurrencyType
}

// ResolvedAccount pairs an account with the metadata of its currency.
type ResolvedAccount struct {
	Account  Account
	Currency Currency
}

// WalletInfo is the subset of host wallet information the SDK relies on.
type WalletInfo struct {
	Name     string `json:"name,omitempty"`
	Version  string `json:"version,omitempty"`
	Tracking bool   `json:"tracking"`
}
