package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the galaxy server
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Galaxy metrics
	StarsCreated prometheus.Counter
	StarsRemoved *prometheus.CounterVec
	Ticks        prometheus.Counter
	ActiveStars  *prometheus.GaugeVec
	Viewers      prometheus.Gauge
	SaveFailures prometheus.Counter
}

// NewCollector creates a collector with its own registry, so tests can build as many as they like
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StarsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stars_created_total",
			Help:      "Total number of stars born",
		}),
		StarsRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stars_removed_total",
				Help:      "Total number of stars removed, by exit reason",
			},
			[]string{"reason"},
		),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_ticks_total",
			Help:      "Total number of lifecycle ticks across galaxies",
		}),
		ActiveStars: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stars",
				Help:      "Stars currently in each galaxy",
			},
			[]string{"galaxy"},
		),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "viewers",
			Help:      "Connected websocket viewers",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_failures_total",
			Help:      "Galaxy snapshots that could not be persisted",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.StarsCreated,
		c.StarsRemoved,
		c.Ticks,
		c.ActiveStars,
		c.Viewers,
		c.SaveFailures,
	)
	return c
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil collector so galaxies can run without metrics.

// StarBorn counts a created star
func (c *Collector) StarBorn() {
	if c != nil {
		c.StarsCreated.Inc()
	}
}

// StarRemoved counts a removed star under its exit reason
func (c *Collector) StarRemoved(reason string) {
	if c != nil {
		c.StarsRemoved.WithLabelValues(reason).Inc()
	}
}

// Tick counts a lifecycle tick
func (c *Collector) Tick() {
	if c != nil {
		c.Ticks.Inc()
	}
}

// SetStars records the star count of a galaxy
func (c *Collector) SetStars(galaxy string, n int) {
	if c != nil {
		c.ActiveStars.WithLabelValues(galaxy).Set(float64(n))
	}
}

// ForgetGalaxy drops the star gauge of a stopped galaxy
func (c *Collector) ForgetGalaxy(galaxy string) {
	if c != nil {
		c.ActiveStars.DeleteLabelValues(galaxy)
	}
}

// ViewerJoined and ViewerLeft track connected viewers
func (c *Collector) ViewerJoined() {
	if c != nil {
		c.Viewers.Inc()
	}
}

func (c *Collector) ViewerLeft() {
	if c != nil {
		c.Viewers.Dec()
	}
}

// SaveFailed counts a failed snapshot write
func (c *Collector) SaveFailed() {
	if c != nil {
		c.SaveFailures.Inc()
	}
}
