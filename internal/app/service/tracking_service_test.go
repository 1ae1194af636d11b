package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"exchange_sdk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []entity.TrackingEvent
}

func (s *captureSink) Send(_ context.Context, e entity.TrackingEvent) error {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	return nil
}

func (s *captureSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type countingFlags struct {
	calls atomic.Int32
	value bool
	err   error
	delay time.Duration
}

func (f *countingFlags) Flag(context.Context, string) (bool, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	return f.value, f.err
}

func TestTrackingService_OptedOut(t *testing.T) {
	host := newFakeHost()
	frontend := &captureSink{}
	flags := &countingFlags{}
	svc := NewTrackingService(host, "changelly", flags, "exchangeBackendTracking", frontend, &captureSink{}, nopLogger{}, nil)

	svc.TrackEvent(context.Background(), EventExchangeStarted, nil)

	assert.Zero(t, frontend.len())
	assert.Zero(t, flags.calls.Load())
	assert.Zero(t, host.count("wallet.userId"))
}

func TestTrackingService_SendsToFrontend(t *testing.T) {
	host := newFakeHost()
	host.tracking = true
	frontend := &captureSink{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewTrackingService(host, "changelly", nil, "", frontend, nil, nopLogger{}, func() time.Time { return now })

	svc.TrackEvent(context.Background(), EventExchangeCompleted, map[string]any{"exchangeType": "SWAP"})

	require.Equal(t, 1, frontend.len())
	e := frontend.events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventExchangeCompleted, e.Name)
	assert.Equal(t, "user-1", e.UserID)
	assert.Equal(t, "changelly", e.Provider)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "SWAP", e.Properties["exchangeType"])
}

func TestTrackingService_FlagReadOnceUnderConcurrency(t *testing.T) {
	host := newFakeHost()
	host.tracking = true
	frontend := &captureSink{}
	backend := &captureSink{}
	flags := &countingFlags{value: true, delay: 20 * time.Millisecond}
	svc := NewTrackingService(host, "changelly", flags, "exchangeBackendTracking", frontend, backend, nopLogger{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.TrackEvent(context.Background(), EventExchangeStarted, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), flags.calls.Load())
	assert.Equal(t, 10, backend.len())
	assert.Zero(t, frontend.len())

	svc.Reset()
	flags.value = false
	svc.TrackEvent(context.Background(), EventExchangeStarted, nil)
	assert.Equal(t, int32(2), flags.calls.Load())
	assert.Equal(t, 1, frontend.len())
}

func TestTrackingService_FlagErrorIsNotCached(t *testing.T) {
	host := newFakeHost()
	host.tracking = true
	frontend := &captureSink{}
	backend := &captureSink{}
	flags := &countingFlags{err: errBoom}
	svc := NewTrackingService(host, "changelly", flags, "exchangeBackendTracking", frontend, backend, nopLogger{}, nil)

	svc.TrackEvent(context.Background(), EventExchangeStarted, nil)
	assert.Zero(t, frontend.len()+backend.len())

	flags.err = nil
	svc.TrackEvent(context.Background(), EventExchangeStarted, nil)
	assert.Equal(t, int32(2), flags.calls.Load())
	assert.Equal(t, 1, frontend.len())
}
