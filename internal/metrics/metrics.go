// Package metrics exposes Prometheus counters for the exchange lifecycle.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"barterly/internal/domain"
)

// Exchange counts proposal lifecycle outcomes. A nil *Exchange is a no-op recorder.
type Exchange struct {
	created    prometheus.Counter
	responded  *prometheus.CounterVec
	cancelled  prometheus.Counter
	superseded prometheus.Counter
	failures   *prometheus.CounterVec
}

// NewExchange registers the exchange counters with reg.
func NewExchange(reg prometheus.Registerer) *Exchange {
	m := &Exchange{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barterly",
			Name:      "proposals_created_total",
			Help:      "Exchange proposals created.",
		}),
		responded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barterly",
			Name:      "proposals_responded_total",
			Help:      "Exchange proposals closed by the receiver owner, by decision.",
		}, []string{"decision"}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barterly",
			Name:      "proposals_cancelled_total",
			Help:      "Pending proposals withdrawn by the sender owner.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barterly",
			Name:      "proposals_superseded_total",
			Help:      "Pending proposals rejected because one of their items changed hands.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barterly",
			Name:      "proposal_failures_total",
			Help:      "Failed lifecycle operations, by operation and reason.",
		}, []string{"op", "reason"}),
	}
	reg.MustRegister(m.created, m.responded, m.cancelled, m.superseded, m.failures)
	return m
}

func (m *Exchange) Created() {
	if m == nil {
		return
	}
	m.created.Inc()
}

func (m *Exchange) Responded(d domain.Decision) {
	if m == nil {
		return
	}
	m.responded.WithLabelValues(d.String()).Inc()
}

func (m *Exchange) Cancelled() {
	if m == nil {
		return
	}
	m.cancelled.Inc()
}

func (m *Exchange) Superseded(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.superseded.Add(float64(n))
}

func (m *Exchange) Failed(op string, err error) {
	if m == nil || err == nil {
		return
	}
	m.failures.WithLabelValues(op, Reason(err)).Inc()
}

// Reason classifies err into a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidProposal):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}
