package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "farmbatch"

// Lifecycle counts committed state changes and ledger writes. A nil *Lifecycle is
// a valid no-op recorder.
type Lifecycle struct {
	transitions *prometheus.CounterVec
	payments    *prometheus.CounterVec
	payouts     prometheus.Counter
}

// NewLifecycle registers the lifecycle metrics on the provided registerer.
func NewLifecycle(reg prometheus.Registerer) *Lifecycle {
	if reg == nil {
		return &Lifecycle{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_transitions_total",
		Help:      "Committed status transitions by entity.",
	}, []string{"entity", "from", "to"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_logged_total",
		Help:      "Buyer payments recorded by stage and method.",
	}, []string{"stage", "method"})
	payouts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "farmer_payouts_logged_total",
		Help:      "Farmer payouts recorded.",
	})
	reg.MustRegister(transitions, payments, payouts)
	return &Lifecycle{
		transitions: transitions,
		payments:    payments,
		payouts:     payouts,
	}
}

// IncTransition records a committed from -> to move on entity.
func (l *Lifecycle) IncTransition(entity, from, to string) {
	if l == nil || l.transitions == nil {
		return
	}
	l.transitions.WithLabelValues(normalizeLabel(entity), normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncPayment records a logged buyer payment.
func (l *Lifecycle) IncPayment(stage, method string) {
	if l == nil || l.payments == nil {
		return
	}
	l.payments.WithLabelValues(normalizeLabel(stage), normalizeLabel(method)).Inc()
}

// IncPayout records a logged farmer payout.
func (l *Lifecycle) IncPayout() {
	if l == nil || l.payouts == nil {
		return
	}
	l.payouts.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
