// Package analytics provides the event sinks and flag source used by tracking.
package analytics

import (
	"context"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type httpSink struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHTTPSink posts every event as JSON to url.
func NewHTTPSink(url string, timeout time.Duration, logger *zap.Logger) port.EventSink {
	return &httpSink{
		client:  &fasthttp.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger.Named("AnalyticsHTTPSink"),
	}
}

func (s *httpSink) Send(ctx context.Context, event entity.TrackingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Name, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.DoTimeout(req, resp, s.timeout)
	}
	if err != nil {
		return fmt.Errorf("send event %s to %s: %w", event.Name, s.url, err)
	}
	if resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		return fmt.Errorf("send event %s to %s: status %d: %s", event.Name, s.url, resp.StatusCode(), string(resp.Body()))
	}

	s.logger.Debug("Event sent", zap.String("event", event.Name), zap.String("messageId", event.ID))
	return nil
}
