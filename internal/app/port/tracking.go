package port

import (
	"context"

	"exchange_sdk/internal/domain/entity"
)

// EventSink dispatches analytics events.
type EventSink interface {
	Send(ctx context.Context, event entity.TrackingEvent) error
}

// FeatureFlagSource resolves remote feature flags.
type FeatureFlagSource interface {
	Flag(ctx context.Context, name string) (bool, error)
}
