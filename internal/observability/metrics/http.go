package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics owns the API process registry. Each process gets its own
// registry so tests never collide on the global one.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchesTotal            *prometheus.CounterVec
	searchResults            *prometheus.HistogramVec
	searchDuration           *prometheus.HistogramVec
	interpreterFallbackTotal *prometheus.CounterVec
	semanticDegradedTotal    *prometheus.CounterVec
	matchScoresTotal         *prometheus.CounterVec
	importedCandidatesTotal  *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tm",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tm",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	searchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total completed searches by entity kind.",
		},
		[]string{"service", "kind"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tm",
			Subsystem: "search",
			Name:      "results",
			Help:      "Distribution of result counts per search page.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"service", "kind"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tm",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "kind"},
	)
	interpreterFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "search",
			Name:      "interpreter_fallback_total",
			Help:      "Total searches where filter extraction fell back to heuristics.",
		},
		[]string{"service"},
	)
	semanticDegradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "search",
			Name:      "semantic_degraded_total",
			Help:      "Total searches served without the semantic layer.",
		},
		[]string{"service"},
	)
	matchScoresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "match",
			Name:      "scores_total",
			Help:      "Total computed match scores by feedback bracket.",
		},
		[]string{"service", "bracket"},
	)
	importedCandidatesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tm",
			Subsystem: "import",
			Name:      "candidates_total",
			Help:      "Total bulk-imported candidate rows by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		searchesTotal,
		searchResults,
		searchDuration,
		interpreterFallbackTotal,
		semanticDegradedTotal,
		matchScoresTotal,
		importedCandidatesTotal,
	)

	return &HTTPServerMetrics{
		registry:                 registry,
		requestTotal:             requestTotal,
		requestDuration:          requestDuration,
		requestInFlight:          requestInFlight,
		searchesTotal:            searchesTotal,
		searchResults:            searchResults,
		searchDuration:           searchDuration,
		interpreterFallbackTotal: interpreterFallbackTotal,
		semanticDegradedTotal:    semanticDegradedTotal,
		matchScoresTotal:         matchScoresTotal,
		importedCandidatesTotal:  importedCandidatesTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath replaces entity ids with placeholders to bound label
// cardinality.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/candidates/") && strings.HasSuffix(path, "/resume"):
		return "/v1/candidates/{candidate_id}/resume"
	case strings.HasPrefix(path, "/v1/applications/") && strings.HasSuffix(path, "/feedback"):
		return "/v1/applications/{application_id}/feedback"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSearch(service, kind string, results int, duration time.Duration) {
	m.searchesTotal.WithLabelValues(service, kind).Inc()
	m.searchResults.WithLabelValues(service, kind).Observe(float64(results))
	m.searchDuration.WithLabelValues(service, kind).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordInterpreterFallback(service string) {
	m.interpreterFallbackTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordSemanticDegraded(service string) {
	m.semanticDegradedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordMatchScore(service string, total int) {
	m.matchScoresTotal.WithLabelValues(service, scoreBracket(total)).Inc()
}

func (m *HTTPServerMetrics) RecordImport(service string, imported, skipped int) {
	if imported > 0 {
		m.importedCandidatesTotal.WithLabelValues(service, "imported").Add(float64(imported))
	}
	if skipped > 0 {
		m.importedCandidatesTotal.WithLabelValues(service, "skipped").Add(float64(skipped))
	}
}

func scoreBracket(total int) string {
	switch {
	case total >= 80:
		return "excellent"
	case total >= 60:
		return "good"
	case total >= 40:
		return "moderate"
	default:
		return "lower"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
