package analytics

import (
	"context"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	"go.uber.org/zap"
)

type logSink struct {
	logger *zap.Logger
}

// NewLogSink writes events to the log. It stands in for the frontend dispatcher when the
// SDK runs outside a browser.
func NewLogSink(logger *zap.Logger) port.EventSink {
	return &logSink{logger: logger.Named("AnalyticsLogSink")}
}

func (s *logSink) Send(_ context.Context, event entity.TrackingEvent) error {
	s.logger.Info("Tracking event",
		zap.String("event", event.Name),
		zap.String("messageId", event.ID),
		zap.String("userId", event.UserID),
		zap.String("provider", event.Provider),
		zap.Any("properties", event.Properties),
	)
	return nil
}
