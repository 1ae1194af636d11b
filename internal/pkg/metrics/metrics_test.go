package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_ObserveExchange(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveExchange("SWAP", "success", "", time.Now())
	r.ObserveExchange("SWAP", "failure", "swap004", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExchangesTotal.WithLabelValues("SWAP", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExchangesTotal.WithLabelValues("SWAP", "failure", "swap004")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveExchange("SELL", "success", "", time.Now())
		r.ObserveBackend("SELL", "remit", "200", time.Now())
		r.ObserveHostCall("account.list", "ok")
	})
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), NewRecorder(nil))
}
