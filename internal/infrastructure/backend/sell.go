package backend

import (
	"context"
	"encoding/base64"
	"fmt"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type remitRequest struct {
	QuoteID       string `json:"quoteId,omitempty"`
	Provider      string `json:"provider"`
	AmountFrom    string `json:"amountFrom"`
	AmountTo      string `json:"amountTo"`
	Nonce         string `json:"nonce"`
	RefundAddress string `json:"refundAddress"`
	FromCurrency  string `json:"fromCurrency"`
	ToCurrency    string `json:"toCurrency,omitempty"`
}

type providerSig struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type remitResponse struct {
	SellID       string           `json:"sellId,omitempty"`
	OrderID      string           `json:"orderId,omitempty"`
	PayinAddress string           `json:"payinAddress"`
	PayinExtraID string           `json:"payinExtraId,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	ProviderSig  providerSig      `json:"providerSig"`
}

type webhookConfirmRequest struct {
	Provider      string `json:"provider"`
	TransactionID string `json:"transactionId"`
}

type webhookCancelRequest struct {
	Provider     string `json:"provider"`
	StatusCode   string `json:"statusCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// remitClient serves the sell and fund backends, which share the remit and webhook shapes.
type remitClient struct {
	baseURL      string
	exchangeType entity.ExchangeType
	doer         *httpDoer
	logger       *zap.Logger
}

// NewSellClient creates the sell backend gateway rooted at baseURL.
func NewSellClient(baseURL string, opts Options, logger *zap.Logger) port.BackendGateway {
	return newRemitClient(entity.ExchangeSell, baseURL, opts, logger.Named("SellBackend"))
}

func newRemitClient(t entity.ExchangeType, baseURL string, opts Options, logger *zap.Logger) *remitClient {
	return &remitClient{
		baseURL:      baseURL,
		exchangeType: t,
		doer:         newDoer(string(t), opts, logger),
		logger:       logger,
	}
}

// RetrievePayload implements port.BackendGateway.
func (c *remitClient) RetrievePayload(ctx context.Context, req entity.PayloadRequest) (entity.Payload, error) {
	path, err := remitPath(c.exchangeType, req.ProductType)
	if err != nil {
		return entity.Payload{}, err
	}

	amount := req.FromAmount.String()
	body := remitRequest{
		QuoteID:       req.QuoteID,
		Provider:      req.Provider,
		AmountFrom:    amount,
		AmountTo:      amount,
		Nonce:         req.DeviceTransactionID,
		RefundAddress: req.FromAccount.Account.Address,
		FromCurrency:  req.FromAccount.Currency.ID,
		ToCurrency:    req.ToFiat,
	}

	var resp remitResponse
	if err := c.doer.postJSON(ctx, "remit", join(c.baseURL, path), body, nil, &resp); err != nil {
		return entity.Payload{}, err
	}

	binaryPayload, err := base64.StdEncoding.DecodeString(resp.ProviderSig.Payload)
	if err != nil {
		return entity.Payload{}, fmt.Errorf("decode %s provider payload: %w", c.exchangeType, err)
	}
	signature, err := base64.StdEncoding.DecodeString(resp.ProviderSig.Signature)
	if err != nil {
		return entity.Payload{}, fmt.Errorf("decode %s provider signature: %w", c.exchangeType, err)
	}

	id := resp.SellID
	if id == "" {
		id = resp.OrderID
	}
	c.logger.Info("Payload retrieved", zap.String("exchangeType", string(c.exchangeType)), zap.String("id", id))

	return entity.Payload{
		ID:            id,
		BinaryPayload: binaryPayload,
		Signature:     signature,
		PayinAddress:  resp.PayinAddress,
		PayinExtraID:  resp.PayinExtraID,
		Amount:        resp.Amount,
	}, nil
}

// Confirm implements port.BackendGateway.
func (c *remitClient) Confirm(ctx context.Context, req entity.ConfirmRequest) error {
	body := webhookConfirmRequest{Provider: req.Provider, TransactionID: req.TransactionID}
	return c.doer.postJSON(ctx, "accepted", join(c.baseURL, webhookPath(req.ID, "accepted")), body, nil, nil)
}

// Cancel implements port.BackendGateway.
func (c *remitClient) Cancel(ctx context.Context, req entity.CancelRequest) error {
	body := webhookCancelRequest{
		Provider:     req.Provider,
		StatusCode:   req.StatusCode,
		ErrorMessage: req.ErrorMessage,
	}
	return c.doer.postJSON(ctx, "cancelled", join(c.baseURL, webhookPath(req.ID, "cancelled")), body, nil, nil)
}
