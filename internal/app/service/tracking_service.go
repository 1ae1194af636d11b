package service

import (
	"context"
	"sync"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Tracking event names emitted by the exchange flows.
const (
	EventExchangeStarted   = "ExchangeStarted"
	EventExchangeCompleted = "ExchangeCompleted"
	EventExchangeFailed    = "ExchangeFailed"
)

const strategyKey = "tracking-strategy"

// TrackingService dispatches events to the frontend or backend sink. The choice is read once
// from a remote feature flag and kept until Reset.
type TrackingService struct {
	host        port.HostWallet
	provider    string
	flags       port.FeatureFlagSource
	backendFlag string
	frontend    port.EventSink
	backend     port.EventSink
	logger      port.Logger
	now         func() time.Time

	group    singleflight.Group
	mu       sync.RWMutex
	resolved port.EventSink
}

// NewTrackingService creates a tracking service. A nil flags source or backend sink always
// selects the frontend sink.
func NewTrackingService(
	host port.HostWallet,
	provider string,
	flags port.FeatureFlagSource,
	backendFlag string,
	frontend port.EventSink,
	backend port.EventSink,
	l port.Logger,
	now func() time.Time,
) *TrackingService {
	if now == nil {
		now = time.Now
	}
	return &TrackingService{
		host:        host,
		provider:    provider,
		flags:       flags,
		backendFlag: backendFlag,
		frontend:    frontend,
		backend:     backend,
		logger:      l,
		now:         now,
	}
}

// TrackEvent sends name with properties when the user opted into tracking.
// Failures are logged and never returned.
func (t *TrackingService) TrackEvent(ctx context.Context, name string, properties map[string]any) {
	info, err := t.host.WalletInfo(ctx)
	if err != nil {
		t.logger.Warn("Failed to read wallet info, event dropped", "event", name, "error", err)
		return
	}
	if !info.Tracking {
		return
	}

	userID, err := t.host.UserID(ctx)
	if err != nil {
		t.logger.Warn("Failed to read user id, event dropped", "event", name, "error", err)
		return
	}

	sink, err := t.sink(ctx)
	if err != nil {
		t.logger.Warn("Failed to resolve tracking strategy, event dropped", "event", name, "error", err)
		return
	}
	if sink == nil {
		return
	}

	event := entity.TrackingEvent{
		ID:         uuid.NewString(),
		Name:       name,
		UserID:     userID,
		Provider:   t.provider,
		Properties: properties,
		Timestamp:  t.now().UTC(),
	}
	if err := sink.Send(ctx, event); err != nil {
		t.logger.Warn("Failed to send tracking event", "event", name, "error", err)
	}
}

// Reset forgets the resolved strategy so the next event re-reads the flag.
func (t *TrackingService) Reset() {
	t.mu.Lock()
	t.resolved = nil
	t.mu.Unlock()
	t.group.Forget(strategyKey)
}

func (t *TrackingService) sink(ctx context.Context) (port.EventSink, error) {
	t.mu.RLock()
	resolved := t.resolved
	t.mu.RUnlock()
	if resolved != nil {
		return resolved, nil
	}

	v, err, _ := t.group.Do(strategyKey, func() (any, error) {
		t.mu.RLock()
		resolved := t.resolved
		t.mu.RUnlock()
		if resolved != nil {
			return resolved, nil
		}

		sink := t.frontend
		if t.flags != nil && t.backend != nil {
			useBackend, err := t.flags.Flag(ctx, t.backendFlag)
			if err != nil {
				return nil, err
			}
			if useBackend {
				sink = t.backend
			}
		}

		t.mu.Lock()
		t.resolved = sink
		t.mu.Unlock()
		return sink, nil
	})
	if err != nil {
		return nil, err
	}
	sink, _ := v.(port.EventSink)
	return sink, nil
}
