package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Collector methods are safe to call on a nil receiver.
type Collector struct {
	reg *prometheus.Registry

	Renders            *prometheus.CounterVec // page label: home|search
	Searches           *prometheus.CounterVec // outcome label
	ConnectionFailures prometheus.Counter

	QueryDuration *prometheus.HistogramVec // query label: states|routes|bus_types|search
	QueryErrors   *prometheus.CounterVec

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	SearchDelay prometheus.Gauge // seconds
}

func NewCollector(searchDelay time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redbus_page_renders_total",
			Help: "Pages rendered by page.",
		}, []string{"page"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redbus_searches_total",
			Help: "Filtered searches by outcome.",
		}, []string{"outcome"}),
		ConnectionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redbus_db_connection_failures_total",
			Help: "Failed attempts to obtain a database connection.",
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "redbus_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"query"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redbus_query_errors_total",
			Help: "Failed database queries.",
		}, []string{"query"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redbus_nats_published_total",
			Help: "Total search events published to NATS.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redbus_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "redbus_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "redbus_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		SearchDelay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "redbus_search_delay_seconds",
			Help: "Configured delay before search results are shown.",
		}),
	}

	reg.MustRegister(
		c.Renders, c.Searches, c.ConnectionFailures,
		c.QueryDuration, c.QueryErrors,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.SearchDelay,
	)

	c.SearchDelay.Set(searchDelay.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	slog.Info("metrics listening", "addr", addr)
	return srv
}

func (c *Collector) ObserveRender(page string) {
	if c == nil {
		return
	}
	c.Renders.WithLabelValues(page).Inc()
}

func (c *Collector) ObserveSearch(outcome string) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveConnectionFailure() {
	if c == nil {
		return
	}
	c.ConnectionFailures.Inc()
}

func (c *Collector) ObserveQuery(query string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.QueryDuration.WithLabelValues(query).Observe(d.Seconds())
	if err != nil {
		c.QueryErrors.WithLabelValues(query).Inc()
	}
}

// The methods below satisfy publisher.PublisherMetrics.

func (c *Collector) NATSPublishedInc() {
	if c != nil {
		c.NATSPublished.Inc()
	}
}

func (c *Collector) NATSPublishErrInc() {
	if c != nil {
		c.NATSPublishErrs.Inc()
	}
}

func (c *Collector) PublishObserve(d time.Duration) {
	if c != nil {
		c.PublishDuration.Observe(d.Seconds())
	}
}

func (c *Collector) NATSSetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}
