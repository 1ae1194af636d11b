// Package backend implements the exchange backend gateways over fasthttp.
package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"exchange_sdk/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	headerSDKVersion     = "x-exchange-sdk-version"
	headerSwapAppVersion = "x-swap-app-version"
)

// Options configures every gateway.
type Options struct {
	SDKVersion string
	Timeout    time.Duration
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit  float64
	BurstLimit int
	Metrics    *metrics.Recorder
	// Client overrides the fasthttp client, mostly for tests.
	Client *fasthttp.Client
}

// StatusError is returned for non-2xx backend answers.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// httpDoer is shared by the gateways so that every request carries the SDK version header.
type httpDoer struct {
	client       *fasthttp.Client
	timeout      time.Duration
	limiter      *rate.Limiter
	sdkVersion   string
	exchangeType string
	logger       *zap.Logger
	metrics      *metrics.Recorder
}

func newDoer(exchangeType string, opts Options, logger *zap.Logger) *httpDoer {
	client := opts.Client
	if client == nil {
		client = &fasthttp.Client{DisablePathNormalizing: true}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.BurstLimit
	if burst <= 0 {
		burst = 1
	}
	return &httpDoer{
		client:       client,
		timeout:      timeout,
		limiter:      rate.NewLimiter(limit, burst),
		sdkVersion:   opts.SDKVersion,
		exchangeType: exchangeType,
		logger:       logger,
		metrics:      opts.Metrics,
	}
}

// postJSON sends body to url and decodes a 2xx answer into out, when out is not nil.
func (d *httpDoer) postJSON(ctx context.Context, endpoint, url string, body any, headers map[string]string, out any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", url, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	// Keep escaped path segments such as %2F as sent.
	req.URI().DisablePathNormalizing = true
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(headerSDKVersion, d.sdkVersion)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	d.logger.Debug("Sending backend request", zap.String("endpoint", endpoint), zap.String("url", url))
	started := time.Now()

	if deadline, ok := ctx.Deadline(); ok {
		err = d.client.DoDeadline(req, resp, deadline)
	} else {
		err = d.client.DoTimeout(req, resp, d.timeout)
	}
	if err != nil {
		d.metrics.ObserveBackend(d.exchangeType, endpoint, "error", started)
		d.logger.Error("Backend request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", url, err)
	}

	status := resp.StatusCode()
	d.metrics.ObserveBackend(d.exchangeType, endpoint, strconv.Itoa(status), started)
	rawBody := resp.Body()

	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		d.logger.Error("Backend answered with an error status",
			zap.String("url", url),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody),
		)
		return &StatusError{URL: url, StatusCode: status, Body: string(rawBody)}
	}

	if out == nil || len(rawBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		d.logger.Error("Failed to unmarshal backend response",
			zap.String("url", url),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
	}
	return nil
}
