package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on a dedicated registry so tests
// can create instances without collector name collisions.
type PrometheusRecorder struct {
	registry      *prometheus.Registry
	buildDuration *prometheus.HistogramVec
	pages         prometheus.Counter
	translations  prometheus.Counter
	brokenLinks   prometheus.Counter
}

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: registry,
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitebuilder_build_duration_seconds",
			Help:    "Duration of full build passes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitebuilder_pages_rendered_total",
			Help: "Pages rendered across all builds.",
		}),
		translations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitebuilder_translations_total",
			Help: "Documents machine-translated across all builds.",
		}),
		brokenLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitebuilder_broken_links_total",
			Help: "Broken links found by validation across all builds.",
		}),
	}
	registry.MustRegister(r.buildDuration, r.pages, r.translations, r.brokenLinks)
	return r
}

func (r *PrometheusRecorder) BuildCompleted(duration time.Duration, succeeded bool) {
	result := "success"
	if !succeeded {
		result = "failure"
	}
	r.buildDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) PagesRendered(n int)         { r.pages.Add(float64(n)) }
func (r *PrometheusRecorder) TranslationsPerformed(n int) { r.translations.Add(float64(n)) }
func (r *PrometheusRecorder) BrokenLinksFound(n int)      { r.brokenLinks.Add(float64(n)) }

// Handler exposes the recorder's registry for the preview server.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
