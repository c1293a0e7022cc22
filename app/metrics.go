package app

import (
	"strconv"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// how long the handler took, labeled by message path.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ weave.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with the given
// registerer. A nil registerer returns a nil decorator that is skipped by
// ChainDecorators.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "escrowd",
			Name:      "tx_total",
			Help:      "Total number of processed transactions.",
		}, []string{"call", "path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "escrowd",
			Name:      "tx_duration_seconds",
			Help:      "Duration of transaction handling in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call", "path"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check records the check call.
func (m *Metrics) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", weave.GetPath(tx), start, err)
	return res, err
}

// Deliver records the deliver call.
func (m *Metrics) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", weave.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(call, path string, start time.Time, err error) {
	m.txs.WithLabelValues(call, path, resultLabel(err)).Inc()
	m.duration.WithLabelValues(call, path).Observe(time.Since(start).Seconds())
}

// resultLabel is "ok" or the ABCI code of the failure.
func resultLabel(err error) string {
	code, _ := errors.ABCIInfo(err, false)
	if code == errors.SuccessABCICode {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
