package entity

import "github.com/shopspring/decimal"

// ExchangeType is the top-level operation category negotiated with the host wallet.
type ExchangeType string

const (
	ExchangeSwap          ExchangeType = "SWAP"
	ExchangeSell          ExchangeType = "SELL"
	ExchangeFund          ExchangeType = "FUND"
	ExchangeTokenApproval ExchangeType = "TOKEN_APPROVAL"
)

// ProductType selects a distinct backend endpoint for SELL and FUND.
type ProductType string

const (
	ProductCard          ProductType = "CARD"
	ProductOnRampOffRamp ProductType = "SELL"
)

// FeeStrategy is forwarded untouched to the host wallet.
type FeeStrategy string

const (
	FeeStrategySlow   FeeStrategy = "slow"
	FeeStrategyMedium FeeStrategy = "medium"
	FeeStrategyFast   FeeStrategy = "fast"
	FeeStrategyCustom FeeStrategy = "custom"
)

// SwapRequest is the caller envelope for a swap.
type SwapRequest struct {
	QuoteID         string          `json:"quoteId,omitempty"`
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountID     string          `json:"toAccountId"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	FeeStrategy     FeeStrategy     `json:"feeStrategy"`
	CustomFeeConfig map[string]any  `json:"customFeeConfig,omitempty"`
	Rate            *float64        `json:"rate,omitempty"`
	ToNewTokenID    string          `json:"toNewTokenId,omitempty"`
}

// SwapResult is returned once the host wallet broadcast the swap transaction.
type SwapResult struct {
	SwapID        string `json:"swapId"`
	TransactionID string `json:"transactionId"`
}

// SellRequest is the caller envelope for a sell.
type SellRequest struct {
	QuoteID         string          `json:"quoteId,omitempty"`
	AccountID       string          `json:"accountId"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	ToFiat          string          `json:"toFiat,omitempty"`
	FeeStrategy     FeeStrategy     `json:"feeStrategy"`
	CustomFeeConfig map[string]any  `json:"customFeeConfig,omitempty"`
	Rate            *float64        `json:"rate,omitempty"`
	Type            ProductType     `json:"type,omitempty"`
}

// SellResult is returned once the host wallet broadcast the sell transaction.
type SellResult struct {
	SellID        string `json:"sellId"`
	TransactionID string `json:"transactionId"`
}

// FundRequest is the caller envelope for funding a card.
type FundRequest struct {
	OrderID         string          `json:"orderId,omitempty"`
	AccountID       string          `json:"fromAccountId"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	FeeStrategy     FeeStrategy     `json:"feeStrategy"`
	CustomFeeConfig map[string]any  `json:"customFeeConfig,omitempty"`
	Type            ProductType     `json:"type,omitempty"`
}

// FundResult is returned once the host wallet broadcast the fund transaction.
type FundResult struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
}

// TokenApprovalRequest asks the host to sign an ERC-20 allowance for a spender.
type TokenApprovalRequest struct {
	OrderID              string          `json:"orderId"`
	UserAccountID        string          `json:"userAccountId"`
	SmartContractAddress string          `json:"smartContractAddress"`
	Amount               decimal.Decimal `json:"amount"`
	FeeStrategy          FeeStrategy     `json:"feeStrategy,omitempty"`
}

// TokenApprovalResult carries the broadcast transaction hash.
type TokenApprovalResult struct {
	OrderID         string `json:"orderId"`
	TransactionHash string `json:"transactionHash"`
}

// RequestAndSignRequest lets the user pick an account and immediately sign a transfer from it.
type RequestAndSignRequest struct {
	CurrencyIDs     []string        `json:"currencyIds"`
	Recipient       string          `json:"recipient"`
	Amount          decimal.Decimal `json:"amount"`
	CustomFeeConfig map[string]any  `json:"customFeeConfig,omitempty"`
	PayinExtraID    string          `json:"payinExtraId,omitempty"`
}

// RequestAndSignResult carries the account the user picked and the broadcast hash.
type RequestAndSignResult struct {
	Account         Account `json:"account"`
	TransactionHash string  `json:"transactionHash"`
}
