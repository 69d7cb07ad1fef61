package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	BookingsCreated     prometheus.Counter
	StateTransitions    *prometheus.CounterVec
	EventsDispatched    *prometheus.CounterVec
	SubscriberFailures  *prometheus.CounterVec
	RemindersScheduled  prometheus.Counter
	RemindersSuppressed prometheus.Counter
	RemindersSent       prometheus.Counter
	StockAlerts         *prometheus.CounterVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	ValidationTime      prometheus.Histogram
}

// Nil-safe increment helpers so components can run without metrics in tests.

func (m *Metrics) IncBookingsCreated() {
	if m != nil {
		m.BookingsCreated.Inc()
	}
}

func (m *Metrics) IncStateTransition(from, to string) {
	if m != nil {
		m.StateTransitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncEventDispatched(event string) {
	if m != nil {
		m.EventsDispatched.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) IncSubscriberFailure(subscriber string) {
	if m != nil {
		m.SubscriberFailures.WithLabelValues(subscriber).Inc()
	}
}

func (m *Metrics) IncRemindersScheduled() {
	if m != nil {
		m.RemindersScheduled.Inc()
	}
}

func (m *Metrics) IncRemindersSuppressed() {
	if m != nil {
		m.RemindersSuppressed.Inc()
	}
}

func (m *Metrics) IncRemindersSent() {
	if m != nil {
		m.RemindersSent.Inc()
	}
}

func (m *Metrics) IncStockAlert(level string) {
	if m != nil {
		m.StockAlerts.WithLabelValues(level).Inc()
	}
}

func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		StateTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_state_transitions_total",
			Help:      "The total number of booking state transitions",
		}, []string{"from", "to"}),
		EventsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "The total number of booking events broadcast to subscribers",
		}, []string{"event"}),
		SubscriberFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriber_failures_total",
			Help:      "The total number of isolated subscriber failures",
		}, []string{"subscriber"}),
		RemindersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled_total",
			Help:      "The total number of reminder rows scheduled",
		}),
		RemindersSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_suppressed_total",
			Help:      "The total number of reminders suppressed before sending",
		}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "The total number of reminders delivered",
		}),
		StockAlerts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_alerts_total",
			Help:      "The total number of stock alerts sent",
		}, []string{"level"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of cache hits on aggregate reads",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "The total number of cache misses on aggregate reads",
		}),
		ValidationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_validation_time_seconds",
			Help:      "Time taken to run the booking validation chain",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
