// Package exchangesdk is the entry point for provider applications. It wires the host wallet,
// the exchange backend and the analytics sinks into one SDK value.
package exchangesdk

import (
	"context"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/app/service"
	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
	"exchange_sdk/internal/infrastructure/analytics"
	"exchange_sdk/internal/infrastructure/backend"
	"exchange_sdk/internal/infrastructure/configloader"
	"exchange_sdk/internal/pkg/logger"
	"exchange_sdk/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Re-exported request and result types.
type (
	HostWallet            = port.HostWallet
	EventSink             = port.EventSink
	FeatureFlagSource     = port.FeatureFlagSource
	SwapRequest           = entity.SwapRequest
	SwapResult            = entity.SwapResult
	SellRequest           = entity.SellRequest
	SellResult            = entity.SellResult
	FundRequest           = entity.FundRequest
	FundResult            = entity.FundResult
	TokenApprovalRequest  = entity.TokenApprovalRequest
	TokenApprovalResult   = entity.TokenApprovalResult
	RequestAndSignRequest = entity.RequestAndSignRequest
	RequestAndSignResult  = entity.RequestAndSignResult
	CardIntegrationState  = entity.CardIntegrationState
	Error                 = exchangeerr.Error
)

// Config is the immutable per-instance configuration.
type Config struct {
	Provider string
	// Environment selects the backend base URLs. Empty means production.
	Environment backend.Environment
	// CustomBackendURL overrides Environment for every exchange type.
	CustomBackendURL string
	SDKVersion       string
	SwapAppVersion   string
	// ErrorCodes is "swap" to report swap failures with swapNNN codes, anything else for
	// the generic exchangeNNN codes.
	ErrorCodes     string
	BackendTimeout time.Duration
	RateLimit      float64
	BurstLimit     int
	// TrackingBackendFlag names the feature flag that routes events to the backend sink.
	TrackingBackendFlag string
}

// FromFile maps a loaded configuration file onto Config.
func FromFile(c *configloader.Config) Config {
	return Config{
		Provider:            c.Provider,
		Environment:         backend.Environment(c.Environment),
		CustomBackendURL:    c.CustomBackendURL,
		SDKVersion:          c.SDKVersion,
		SwapAppVersion:      c.SwapAppVersion,
		ErrorCodes:          c.ErrorCodes,
		BackendTimeout:      time.Duration(c.Backend.RequestTimeoutMillis) * time.Millisecond,
		RateLimit:           c.Backend.RateLimit,
		BurstLimit:          c.Backend.BurstLimit,
		TrackingBackendFlag: c.Tracking.BackendFlag,
	}
}

type options struct {
	logger   *zap.Logger
	reg      prometheus.Registerer
	frontend port.EventSink
	backend  port.EventSink
	flags    port.FeatureFlagSource
	now      func() time.Time
}

// Option customises New.
type Option func(*options)

// WithLogger sets the root logger. The process-wide logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the SDK metrics on reg instead of the default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// WithEventSinks sets the frontend and backend tracking sinks. backend may be nil.
func WithEventSinks(frontend, backend port.EventSink) Option {
	return func(o *options) {
		o.frontend = frontend
		o.backend = backend
	}
}

// WithFeatureFlags sets the source of the tracking strategy flag.
func WithFeatureFlags(f port.FeatureFlagSource) Option {
	return func(o *options) { o.flags = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// SDK runs exchanges for one provider against one host wallet.
type SDK struct {
	exchanges port.ExchangeService
	tracking  *service.TrackingService
	cards     port.CardStateStore
	logger    *zap.Logger
}

// New builds an SDK. host is required; everything else has a default.
func New(cfg Config, host port.HostWallet, opts ...Option) (*SDK, error) {
	if host == nil {
		return nil, fmt.Errorf("host wallet is required")
	}
	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Zap()
	}
	root := o.logger.Named("exchangesdk").With(zap.String("provider", cfg.Provider))
	if o.frontend == nil {
		o.frontend = analytics.NewLogSink(root)
	}

	urls, err := backend.Endpoints(cfg.Environment, cfg.CustomBackendURL)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder(o.reg)
	backendOpts := backend.Options{
		SDKVersion: cfg.SDKVersion,
		Timeout:    cfg.BackendTimeout,
		RateLimit:  cfg.RateLimit,
		BurstLimit: cfg.BurstLimit,
		Metrics:    recorder,
	}

	svcLogger := logger.FromZap(root)
	tracking := service.NewTrackingService(host, cfg.Provider, o.flags, cfg.TrackingBackendFlag, o.frontend, o.backend, svcLogger, o.now)

	exchanges := service.NewExchangeService(
		service.ExchangeConfig{
			Provider:       cfg.Provider,
			SwapAppVersion: cfg.SwapAppVersion,
			SwapErrors:     exchangeerr.ParseFamily(cfg.ErrorCodes),
		},
		host,
		service.Gateways{
			Swap: backend.NewSwapClient(urls.Swap, backendOpts, root),
			Sell: backend.NewSellClient(urls.Sell, backendOpts, root),
			Fund: backend.NewFundClient(urls.Sell, backendOpts, root),
		},
		service.NewAccountResolver(host, svcLogger),
		tracking,
		recorder,
		svcLogger,
		o.now,
	)

	root.Info("Exchange SDK initialized",
		zap.String("environment", string(cfg.Environment)),
		zap.String("swapURL", urls.Swap),
		zap.String("sellURL", urls.Sell))

	return &SDK{
		exchanges: exchanges,
		tracking:  tracking,
		cards:     service.NewCardStateStore(host, cfg.Provider, svcLogger, o.now),
		logger:    root,
	}, nil
}

func (s *SDK) Swap(ctx context.Context, req SwapRequest) (SwapResult, error) {
	return s.exchanges.Swap(ctx, req)
}

func (s *SDK) Sell(ctx context.Context, req SellRequest) (SellResult, error) {
	return s.exchanges.Sell(ctx, req)
}

func (s *SDK) Fund(ctx context.Context, req FundRequest) (FundResult, error) {
	return s.exchanges.Fund(ctx, req)
}

func (s *SDK) TokenApproval(ctx context.Context, req TokenApprovalRequest) (TokenApprovalResult, error) {
	return s.exchanges.TokenApproval(ctx, req)
}

func (s *SDK) RequestAndSignForAccount(ctx context.Context, req RequestAndSignRequest) (RequestAndSignResult, error) {
	return s.exchanges.RequestAndSignForAccount(ctx, req)
}

// SetCardIntegrationFlag records flag for the provider in the host's card integration state.
func (s *SDK) SetCardIntegrationFlag(ctx context.Context, flag string) error {
	return s.cards.SetCardIntegrationFlag(ctx, flag)
}

// CardIntegrationState returns the provider's card integration flags.
func (s *SDK) CardIntegrationState(ctx context.Context) (CardIntegrationState, error) {
	return s.cards.CardIntegrationState(ctx)
}

// TrackEvent sends a custom analytics event through the resolved tracking strategy.
func (s *SDK) TrackEvent(ctx context.Context, name string, properties map[string]any) {
	s.tracking.TrackEvent(ctx, name, properties)
}

// ResetTracking forgets the resolved tracking strategy.
func (s *SDK) ResetTracking() {
	s.tracking.Reset()
}

// Close flushes the SDK logger.
func (s *SDK) Close() error {
	_ = s.logger.Sync()
	return nil
}
