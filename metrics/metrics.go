package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kova98/adwatch.api/detector"
)

type Metrics struct {
	registry *prometheus.Registry

	DetectRequests  *prometheus.CounterVec
	Hits            *prometheus.CounterVec
	DetectDuration  prometheus.Histogram
	CatalogKeywords *prometheus.GaugeVec
	SavedResults    *prometheus.CounterVec
	AlertsSent      prometheus.Counter
}

// New registers the service collectors on a fresh registry, along with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		DetectRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adwatch_detect_requests_total",
				Help: "Total number of detect calls",
			},
			[]string{"combination"},
		),
		Hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adwatch_hits_total",
				Help: "Total number of reported hits",
			},
			[]string{"category"},
		),
		DetectDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adwatch_detect_duration_seconds",
				Help:    "Time spent in detect calls",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		CatalogKeywords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "adwatch_catalog_keywords",
				Help: "Number of keywords per category in the active catalog",
			},
			[]string{"category"},
		),
		SavedResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adwatch_saved_results_total",
				Help: "Detection results submitted for storage, by outcome",
			},
			[]string{"status"},
		),
		AlertsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adwatch_alerts_sent_total",
				Help: "Total number of alert digests sent",
			},
		),
	}

	m.registry.MustRegister(
		m.DetectRequests,
		m.Hits,
		m.DetectDuration,
		m.CatalogKeywords,
		m.SavedResults,
		m.AlertsSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveDetect(combination bool, result detector.Result, elapsed time.Duration) {
	m.DetectRequests.WithLabelValues(strconv.FormatBool(combination)).Inc()
	m.DetectDuration.Observe(elapsed.Seconds())
	for cat, hits := range result {
		m.Hits.WithLabelValues(cat.String()).Add(float64(len(hits)))
	}
}

// SetCatalog replaces the per-category keyword gauges with the counts of c.
func (m *Metrics) SetCatalog(c *detector.Catalog) {
	m.CatalogKeywords.Reset()
	for _, cat := range c.Categories() {
		m.CatalogKeywords.WithLabelValues(cat.String()).Set(float64(len(c.Keywords(cat))))
	}
}
