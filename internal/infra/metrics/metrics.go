package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kyc_deposit"

// Counters groups the deposit flow metrics. A nil *Counters records nothing.
type Counters struct {
	SessionsOpened     prometheus.Counter
	SessionsClosed     prometheus.Counter
	ChargesCreated     prometheus.Counter
	GenerationFailures prometheus.Counter
	Polls              *prometheus.CounterVec
	Outcomes           *prometheus.CounterVec
	ConversionsTracked prometheus.Counter
	OutboxDispatched   *prometheus.CounterVec
}

func NewCounters(reg prometheus.Registerer) *Counters {
	f := promauto.With(reg)

	return &Counters{
		SessionsOpened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Deposit sessions opened",
		}),
		SessionsClosed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Deposit sessions torn down",
		}),
		ChargesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charges_created_total",
			Help:      "Charges created by the charge service",
		}),
		GenerationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charge_generation_failures_total",
			Help:      "Charge creations that failed",
		}),
		Polls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_polls_total",
			Help:      "Status checks issued, by result",
		}, []string{"result"}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Resolved verification outcomes",
		}, []string{"outcome"}),
		ConversionsTracked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_tracked_total",
			Help:      "Purchase conversions handed to the tracking sink",
		}),
		OutboxDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_dispatched_total",
			Help:      "Outbox events dispatched, by result",
		}, []string{"result"}),
	}
}

func (c *Counters) IncSessionOpened() {
	if c == nil {
		return
	}
	c.SessionsOpened.Inc()
}

func (c *Counters) IncSessionClosed() {
	if c == nil {
		return
	}
	c.SessionsClosed.Inc()
}

func (c *Counters) IncChargeCreated() {
	if c == nil {
		return
	}
	c.ChargesCreated.Inc()
}

func (c *Counters) IncGenerationFailed() {
	if c == nil {
		return
	}
	c.GenerationFailures.Inc()
}

func (c *Counters) IncPoll(result string) {
	if c == nil {
		return
	}
	c.Polls.WithLabelValues(result).Inc()
}

func (c *Counters) IncOutcome(outcome string) {
	if c == nil {
		return
	}
	c.Outcomes.WithLabelValues(outcome).Inc()
}

func (c *Counters) IncConversionTracked() {
	if c == nil {
		return
	}
	c.ConversionsTracked.Inc()
}

func (c *Counters) IncOutboxDispatched(result string) {
	if c == nil {
		return
	}
	c.OutboxDispatched.WithLabelValues(result).Inc()
}
