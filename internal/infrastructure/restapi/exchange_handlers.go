package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
	"exchange_sdk/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Exchanger is the part of the SDK the deep-link surface drives.
type Exchanger interface {
	Swap(ctx context.Context, req entity.SwapRequest) (entity.SwapResult, error)
	Sell(ctx context.Context, req entity.SellRequest) (entity.SellResult, error)
	Fund(ctx context.Context, req entity.FundRequest) (entity.FundResult, error)
	TokenApproval(ctx context.Context, req entity.TokenApprovalRequest) (entity.TokenApprovalResult, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Step    string `json:"step,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ExchangeHandler serves exchange deep links. A quote or order id seen twice within the
// dedup window returns the first result instead of starting another exchange.
type ExchangeHandler struct {
	sdk      Exchanger
	provider string
	results  *cache.Cache
	inflight singleflight.Group
	logger   *zap.Logger
}

// NewExchangeHandler creates the handler. provider, when set, must match the provider query
// parameter of swap links.
func NewExchangeHandler(sdk Exchanger, provider string, dedupTTL time.Duration, logger *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		sdk:      sdk,
		provider: provider,
		results:  cache.New(dedupTTL, 2*dedupTTL),
		logger:   logger.Named("ExchangeHandler"),
	}
}

// Swap handles GET /api/v1/swap.
func (h *ExchangeHandler) Swap(c *gin.Context) {
	req, err := h.swapRequestFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	h.serve(c, "swap:"+req.QuoteID, req.QuoteID != "", func(ctx context.Context) (any, error) {
		return h.sdk.Swap(ctx, req)
	})
}

// Sell handles POST /api/v1/sell.
func (h *ExchangeHandler) Sell(c *gin.Context) {
	var req entity.SellRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AccountID == "" {
		badRequest(c, fmt.Errorf("accountId is required"))
		return
	}

	h.serve(c, "sell:"+req.QuoteID, req.QuoteID != "", func(ctx context.Context) (any, error) {
		return h.sdk.Sell(ctx, req)
	})
}

// Fund handles POST /api/v1/fund.
func (h *ExchangeHandler) Fund(c *gin.Context) {
	var req entity.FundRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AccountID == "" {
		badRequest(c, fmt.Errorf("fromAccountId is required"))
		return
	}

	h.serve(c, "fund:"+req.OrderID, req.OrderID != "", func(ctx context.Context) (any, error) {
		return h.sdk.Fund(ctx, req)
	})
}

// TokenApproval handles POST /api/v1/token-approval.
func (h *ExchangeHandler) TokenApproval(c *gin.Context) {
	var req entity.TokenApprovalRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	h.serve(c, "approval:"+req.OrderID, req.OrderID != "", func(ctx context.Context) (any, error) {
		return h.sdk.TokenApproval(ctx, req)
	})
}

// serve runs fn once per key. Only successful results are kept.
func (h *ExchangeHandler) serve(c *gin.Context, key string, dedup bool, fn func(ctx context.Context) (any, error)) {
	if !dedup {
		result, err := fn(c.Request.Context())
		h.respond(c, result, err)
		return
	}

	if cached, ok := h.results.Get(key); ok {
		h.logger.Info("Returning deduplicated result", zap.String("key", key))
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err, shared := h.inflight.Do(key, func() (any, error) {
		if cached, ok := h.results.Get(key); ok {
			return cached, nil
		}
		result, err := fn(c.Request.Context())
		if err != nil {
			return nil, err
		}
		h.results.SetDefault(key, result)
		return result, nil
	})
	if shared {
		h.logger.Debug("Joined in-flight exchange", zap.String("key", key))
	}
	h.respond(c, result, err)
}

func (h *ExchangeHandler) respond(c *gin.Context, result any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, result)
		return
	}

	_ = c.Error(err)
	body := ErrorResponse{Kind: "Unknown", Message: err.Error()}
	if e, ok := exchangeerr.As(err); ok {
		body.Code = e.Code
		body.Step = string(e.Step)
		body.Kind = string(e.Kind)
	} else if name := exchangeerr.HostErrorName(err); name != "" {
		body.Kind = name
	}
	c.JSON(statusFor(err), body)
}

func (h *ExchangeHandler) swapRequestFromQuery(c *gin.Context) (entity.SwapRequest, error) {
	if provider := c.Query("provider"); h.provider != "" && provider != "" && provider != h.provider {
		return entity.SwapRequest{}, fmt.Errorf("provider %q is not served here", provider)
	}

	req := entity.SwapRequest{
		QuoteID:       c.Query("quoteId"),
		FromAccountID: c.Query("fromAccountId"),
		ToAccountID:   c.Query("toAccountId"),
		FeeStrategy:   entity.FeeStrategy(c.DefaultQuery("feeStrategy", string(entity.FeeStrategyMedium))),
		ToNewTokenID:  c.Query("toNewTokenId"),
	}
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return entity.SwapRequest{}, fmt.Errorf("fromAccountId and toAccountId are required")
	}

	amount, err := utils.ParseAmount(c.Query("fromAmount"))
	if err != nil {
		return entity.SwapRequest{}, fmt.Errorf("fromAmount: %w", err)
	}
	req.FromAmount = amount

	if raw := c.Query("rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entity.SwapRequest{}, fmt.Errorf("rate: %w", err)
		}
		req.Rate = &rate
	}

	if raw := c.Query("customFeeConfig"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.CustomFeeConfig); err != nil {
			return entity.SwapRequest{}, fmt.Errorf("customFeeConfig: %w", err)
		}
	}
	return req, nil
}

func bindJSON(c *gin.Context, out any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Kind: "BadRequest", Message: err.Error()})
}

func statusFor(err error) int {
	e, ok := exchangeerr.As(err)
	if !ok {
		if exchangeerr.HostErrorName(err) != "" {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case exchangeerr.KindInvalidRequest:
		return http.StatusBadRequest
	case exchangeerr.KindInsufficientFunds, exchangeerr.KindUnknownAccount, exchangeerr.KindMissingRequiredMemo,
		exchangeerr.KindUnsupportedFamily, exchangeerr.KindUnsupportedProductType, exchangeerr.KindAmountMismatch:
		return http.StatusUnprocessableEntity
	case exchangeerr.KindHostUIDismissed, exchangeerr.KindSignatureIgnored:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
