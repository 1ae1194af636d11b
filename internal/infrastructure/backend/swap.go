package backend

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type swapRemitRequest struct {
	Provider                         string          `json:"provider"`
	DeviceTransactionID              string          `json:"deviceTransactionId"`
	From                             string          `json:"from"`
	To                               string          `json:"to"`
	Address                          string          `json:"address"`
	RefundAddress                    string          `json:"refundAddress"`
	AmountFrom                       string          `json:"amountFrom"`
	AmountFromInSmallestDenomination jsoniter.Number `json:"amountFromInSmallestDenomination"`
	RateID                           string          `json:"rateId,omitempty"`
	Rate                             *float64        `json:"rate,omitempty"`
	ToNewTokenID                     string          `json:"toNewTokenId,omitempty"`
}

type swapRemitResponse struct {
	BinaryPayload              string `json:"binaryPayload"`
	Signature                  string `json:"signature"`
	PayinAddress               string `json:"payinAddress"`
	SwapID                     string `json:"swapId"`
	PayinExtraID               string `json:"payinExtraId,omitempty"`
	ExtraTransactionParameters string `json:"extraTransactionParameters,omitempty"`
}

type swapConfirmRequest struct {
	Provider      string `json:"provider"`
	SwapID        string `json:"swapId"`
	TransactionID string `json:"transactionId"`
}

type swapCancelRequest struct {
	Provider     string `json:"provider"`
	SwapID       string `json:"swapId"`
	StatusCode   string `json:"statusCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type swapClient struct {
	baseURL string
	doer    *httpDoer
	logger  *zap.Logger
}

// NewSwapClient creates the swap backend gateway rooted at baseURL.
func NewSwapClient(baseURL string, opts Options, logger *zap.Logger) port.BackendGateway {
	logger = logger.Named("SwapBackend")
	return &swapClient{
		baseURL: baseURL,
		doer:    newDoer(string(entity.ExchangeSwap), opts, logger),
		logger:  logger,
	}
}

// RetrievePayload implements port.BackendGateway.
func (c *swapClient) RetrievePayload(ctx context.Context, req entity.PayloadRequest) (entity.Payload, error) {
	if req.ToAccount == nil {
		return entity.Payload{}, fmt.Errorf("swap payload request requires a destination account")
	}
	if !req.FromAmountAtomic.IsInteger() {
		return entity.Payload{}, fmt.Errorf("swap amount %s is not a whole number of atomic units", req.FromAmountAtomic)
	}

	body := swapRemitRequest{
		Provider:                         req.Provider,
		DeviceTransactionID:              req.DeviceTransactionID,
		From:                             req.FromAccount.Currency.ID,
		To:                               req.ToAccount.Currency.ID,
		Address:                          req.ToAccount.Account.Address,
		RefundAddress:                    req.FromAccount.Account.Address,
		AmountFrom:                       req.FromAmount.String(),
		AmountFromInSmallestDenomination: jsoniter.Number(req.FromAmountAtomic.BigInt().String()),
		RateID:                           req.QuoteID,
		Rate:                             req.Rate,
		ToNewTokenID:                     req.ToNewTokenID,
	}

	var resp swapRemitResponse
	if err := c.doer.postJSON(ctx, "remit", join(c.baseURL, ""), body, nil, &resp); err != nil {
		return entity.Payload{}, err
	}

	binaryPayload, err := decodeHex(resp.BinaryPayload)
	if err != nil {
		return entity.Payload{}, fmt.Errorf("decode swap binary payload: %w", err)
	}
	signature, err := decodeHex(resp.Signature)
	if err != nil {
		return entity.Payload{}, fmt.Errorf("decode swap signature: %w", err)
	}

	c.logger.Info("Swap payload retrieved", zap.String("swapId", resp.SwapID))
	return entity.Payload{
		ID:                         resp.SwapID,
		BinaryPayload:              binaryPayload,
		Signature:                  signature,
		PayinAddress:               resp.PayinAddress,
		PayinExtraID:               resp.PayinExtraID,
		ExtraTransactionParameters: resp.ExtraTransactionParameters,
	}, nil
}

// Confirm implements port.BackendGateway.
func (c *swapClient) Confirm(ctx context.Context, req entity.ConfirmRequest) error {
	var headers map[string]string
	if req.AppVersion != "" {
		headers = map[string]string{headerSwapAppVersion: req.AppVersion}
	}
	body := swapConfirmRequest{
		Provider:      req.Provider,
		SwapID:        req.ID,
		TransactionID: req.TransactionID,
	}
	return c.doer.postJSON(ctx, "accepted", join(c.baseURL, "accepted"), body, headers, nil)
}

// Cancel implements port.BackendGateway.
func (c *swapClient) Cancel(ctx context.Context, req entity.CancelRequest) error {
	body := swapCancelRequest{
		Provider:     req.Provider,
		SwapID:       req.ID,
		StatusCode:   req.StatusCode,
		ErrorMessage: req.ErrorMessage,
	}
	return c.doer.postJSON(ctx, "cancelled", join(c.baseURL, "cancelled"), body, nil, nil)
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
