// Package hostwallet talks to the host wallet over JSON-RPC 2.0.
package hostwallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/pkg/metrics"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	methodAccountList      = "account.list"
	methodAccountRequest   = "account.request"
	methodCurrencyList     = "currency.list"
	methodExchangeStart    = "exchange.start"
	methodCompleteSwap     = "exchange.completeSwap"
	methodCompleteSell     = "exchange.completeSell"
	methodCompleteFund     = "exchange.completeFund"
	methodThrowError       = "custom.exchange.throwExchangeErrorToLedgerLive"
	methodSignAndBroadcast = "transaction.signAndBroadcast"
	methodStorageGet       = "storage.get"
	methodStorageSet       = "storage.set"
	methodWalletUserID     = "wallet.userId"
	methodWalletInfo       = "wallet.info"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcErrorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type rpcError struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *rpcErrorData `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      string              `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *rpcError           `json:"error"`
}

type rpcClient struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// NewRPCClient creates a host wallet adapter posting JSON-RPC requests to url.
func NewRPCClient(url string, timeout time.Duration, recorder *metrics.Recorder, logger *zap.Logger) port.HostWallet {
	return &rpcClient{
		client:  &fasthttp.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger.Named("HostWalletRPC"),
		metrics: recorder,
	}
}

// call performs one JSON-RPC round trip and decodes the result into out when out is not nil.
func (c *rpcClient) call(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Calling host wallet", zap.String("method", method))

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.metrics.ObserveHostCall(method, "transport_error")
		c.logger.Error("Host wallet call failed", zap.String("method", method), zap.Error(err))
		return fmt.Errorf("host wallet call %s: %w", method, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.metrics.ObserveHostCall(method, "http_error")
		return fmt.Errorf("host wallet call %s failed with status %d: %s", method, resp.StatusCode(), string(resp.Body()))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		c.metrics.ObserveHostCall(method, "decode_error")
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		c.metrics.ObserveHostCall(method, "rpc_error")
		hostErr := &port.HostError{Code: envelope.Error.Code, Message: envelope.Error.Message}
		if envelope.Error.Data != nil {
			hostErr.Name = envelope.Error.Data.Name
			if envelope.Error.Data.Message != "" {
				hostErr.Message = envelope.Error.Data.Message
			}
		}
		c.logger.Warn("Host wallet returned an error",
			zap.String("method", method),
			zap.String("name", hostErr.Name),
			zap.String("message", hostErr.Message))
		return hostErr
	}

	c.metrics.ObserveHostCall(method, "ok")
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *rpcClient) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	var accounts []entity.Account
	if err := c.call(ctx, methodAccountList, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *rpcClient) ListCurrencies(ctx context.Context, currencyIDs []string) ([]entity.Currency, error) {
	var currencies []entity.Currency
	params := map[string]any{"currencyIds": currencyIDs}
	if err := c.call(ctx, methodCurrencyList, params, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (c *rpcClient) StartExchange(ctx context.Context, p port.StartExchangeParams) (string, error) {
	params := map[string]any{
		"exchangeType":  p.ExchangeType,
		"provider":      p.Provider,
		"fromAccountId": p.FromAccountID,
	}
	if p.ToAccountID != "" {
		params["toAccountId"] = p.ToAccountID
	}
	if p.TokenCurrency != "" {
		params["tokenCurrency"] = p.TokenCurrency
	}

	var result struct {
		TransactionID string `json:"transactionId"`
	}
	if err := c.call(ctx, methodExchangeStart, params, &result); err != nil {
		return "", err
	}
	if result.TransactionID == "" {
		return "", fmt.Errorf("%s returned an empty device transaction id", methodExchangeStart)
	}
	return result.TransactionID, nil
}

func (c *rpcClient) CompleteSwap(ctx context.Context, p port.CompleteExchangeParams) (string, error) {
	params := completeParams(p)
	params["swapId"] = p.ExchangeID
	if p.Rate != nil {
		params["rate"] = *p.Rate
	}
	if p.ToNewTokenID != "" {
		params["toNewTokenId"] = p.ToNewTokenID
	}
	return c.complete(ctx, methodCompleteSwap, params)
}

func (c *rpcClient) CompleteSell(ctx context.Context, p port.CompleteExchangeParams) (string, error) {
	params := completeParams(p)
	params["sellId"] = p.ExchangeID
	return c.complete(ctx, methodCompleteSell, params)
}

func (c *rpcClient) CompleteFund(ctx context.Context, p port.CompleteExchangeParams) (string, error) {
	params := completeParams(p)
	params["orderId"] = p.ExchangeID
	return c.complete(ctx, methodCompleteFund, params)
}

func completeParams(p port.CompleteExchangeParams) map[string]any {
	params := map[string]any{
		"provider":      p.Provider,
		"fromAccountId": p.FromAccountID,
		"transaction":   p.Transaction,
		"binaryPayload": hex.EncodeToString(p.BinaryPayload),
		"signature":     hex.EncodeToString(p.Signature),
		"feeStrategy":   p.FeeStrategy,
	}
	if p.ToAccountID != "" {
		params["toAccountId"] = p.ToAccountID
	}
	return params
}

func (c *rpcClient) complete(ctx context.Context, method string, params map[string]any) (string, error) {
	var result struct {
		TransactionHash string `json:"transactionHash"`
	}
	if err := c.call(ctx, method, params, &result); err != nil {
		return "", err
	}
	return result.TransactionHash, nil
}

func (c *rpcClient) ReportError(ctx context.Context, report port.ErrorReport) error {
	return c.call(ctx, methodThrowError, map[string]any{"error": report}, nil)
}

func (c *rpcClient) RequestAccount(ctx context.Context, currencyIDs []string) (entity.Account, error) {
	var account entity.Account
	params := map[string]any{"currencyIds": currencyIDs}
	if err := c.call(ctx, methodAccountRequest, params, &account); err != nil {
		return entity.Account{}, err
	}
	return account, nil
}

func (c *rpcClient) SignAndBroadcast(ctx context.Context, accountID string, tx entity.Transaction) (string, error) {
	var hash string
	params := map[string]any{"accountId": accountID, "transaction": tx}
	if err := c.call(ctx, methodSignAndBroadcast, params, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *rpcClient) StorageGet(ctx context.Context, key string) (string, bool, error) {
	var value *string
	if err := c.call(ctx, methodStorageGet, map[string]any{"key": key}, &value); err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (c *rpcClient) StorageSet(ctx context.Context, key, value string) error {
	return c.call(ctx, methodStorageSet, map[string]any{"key": key, "value": value}, nil)
}

func (c *rpcClient) UserID(ctx context.Context) (string, error) {
	var id string
	if err := c.call(ctx, methodWalletUserID, nil, &id); err != nil {
		return "", err
	}
	return id, nil
}

func (c *rpcClient) WalletInfo(ctx context.Context) (entity.WalletInfo, error) {
	var info entity.WalletInfo
	if err := c.call(ctx, methodWalletInfo, nil, &info); err != nil {
		return entity.WalletInfo{}, err
	}
	return info, nil
}
