package analytics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exchange_sdk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPSink_PostsEvent(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		received <- body
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, time.Second, zap.NewNop())
	err := sink.Send(context.Background(), entity.TrackingEvent{
		ID: "m-1", Name: "ExchangeCompleted", UserID: "user-1", Provider: "changelly",
		Properties: map[string]any{"exchangeType": "SWAP"},
	})
	require.NoError(t, err)

	body := <-received
	assert.Equal(t, "ExchangeCompleted", body["event"])
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "changelly", body["provider"])
}

func TestHTTPSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL, time.Second, zap.NewNop()).Send(context.Background(), entity.TrackingEvent{Name: "x"})
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Send(context.Background(), entity.TrackingEvent{Name: "ExchangeStarted"}))

	entries := logs.FilterMessage("Tracking event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ExchangeStarted", entries[0].ContextMap()["event"])
}

func TestRemoteFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"exchangeBackendTracking":true,"other":false}`))
	}))
	defer srv.Close()

	flags := NewRemoteFlags(srv.URL, time.Second, zap.NewNop())

	on, err := flags.Flag(context.Background(), "exchangeBackendTracking")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := flags.Flag(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, off)
}

func TestStaticFlags(t *testing.T) {
	on, err := StaticFlags{"a": true}.Flag(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, on)
}
