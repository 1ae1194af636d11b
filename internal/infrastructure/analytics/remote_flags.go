package analytics

import (
	"context"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type remoteFlags struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRemoteFlags reads feature flags from a JSON object of flag name to boolean served at url.
func NewRemoteFlags(url string, timeout time.Duration, logger *zap.Logger) port.FeatureFlagSource {
	return &remoteFlags{
		client:  &fasthttp.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger.Named("RemoteFlags"),
	}
}

func (f *remoteFlags) Flag(ctx context.Context, name string) (bool, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(f.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = f.client.DoDeadline(req, resp, deadline)
	} else {
		err = f.client.DoTimeout(req, resp, f.timeout)
	}
	if err != nil {
		return false, fmt.Errorf("fetch feature flags from %s: %w", f.url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return false, fmt.Errorf("fetch feature flags from %s: status %d", f.url, resp.StatusCode())
	}

	var flags map[string]bool
	if err := json.Unmarshal(resp.Body(), &flags); err != nil {
		return false, fmt.Errorf("decode feature flags: %w", err)
	}

	enabled := flags[name]
	f.logger.Debug("Feature flag resolved", zap.String("flag", name), zap.Bool("enabled", enabled))
	return enabled, nil
}

// StaticFlags is a FeatureFlagSource with fixed values.
type StaticFlags map[string]bool

func (s StaticFlags) Flag(_ context.Context, name string) (bool, error) {
	return s[name], nil
}
