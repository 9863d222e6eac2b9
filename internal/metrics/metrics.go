// Package metrics exposes Prometheus metrics for storage writes, logins and bookings.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements store.Observer and records request-level outcomes.
type Collector struct {
	persistTotal   *prometheus.CounterVec
	persistLatency *prometheus.HistogramVec
	loginTotal     *prometheus.CounterVec
	bookingTotal   *prometheus.CounterVec
	httpTotal      *prometheus.CounterVec
	remindersSent  prometheus.Counter
}

// NewCollector registers the metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		persistTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_store_persist_total",
			Help: "Document writes by storage key and result.",
		}, []string{"key", "result"}),
		persistLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vortex_store_persist_seconds",
			Help:    "Latency of whole-document writes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"key"}),
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_login_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_booking_total",
			Help: "Appointment booking attempts by outcome.",
		}, []string{"outcome"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vortex_reminders_sent_total",
			Help: "Appointment reminders delivered.",
		}),
	}

	reg.MustRegister(
		c.persistTotal,
		c.persistLatency,
		c.loginTotal,
		c.bookingTotal,
		c.httpTotal,
		c.remindersSent,
	)
	return c
}

func (c *Collector) ObservePersist(key string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.persistTotal.WithLabelValues(key, result).Inc()
	c.persistLatency.WithLabelValues(key).Observe(took.Seconds())
}

func (c *Collector) RecordLogin(outcome string) {
	c.loginTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordBooking(outcome string) {
	c.bookingTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRemindersSent(n int) {
	c.remindersSent.Add(float64(n))
}

// Handler serves the Prometheus scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
