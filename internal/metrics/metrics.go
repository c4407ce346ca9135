package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysesTotal    *prometheus.CounterVec
	sentimentLabels  *prometheus.CounterVec
	performanceScore prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
	eventsTotal      *prometheus.CounterVec
	wsClients        prometheus.Gauge
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feedback",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "feedback",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback",
			Subsystem: "analytics",
			Name:      "analyses_total",
			Help:      "Analytics records produced, by source (computed or cache).",
		},
		[]string{"source"},
	)
	sentimentLabels := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback",
			Subsystem: "analytics",
			Name:      "sentiment_labels_total",
			Help:      "Classified feedback texts by sentiment label.",
		},
		[]string{"label"},
	)
	performanceScore := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "feedback",
			Subsystem: "analytics",
			Name:      "performance_score",
			Help:      "Distribution of computed course performance scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Analytics cache lookups by result.",
		},
		[]string{"result"},
	)
	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback",
			Subsystem: "events",
			Name:      "total",
			Help:      "Feedback events by direction and status.",
		},
		[]string{"direction", "status"},
	)
	wsClients := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "feedback",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysesTotal,
		sentimentLabels,
		performanceScore,
		cacheLookups,
		eventsTotal,
		wsClients,
	)

	return &Metrics{
		registry:         registry,
		service:          service,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		analysesTotal:    analysesTotal,
		sentimentLabels:  sentimentLabels,
		performanceScore: performanceScore,
		cacheLookups:     cacheLookups,
		eventsTotal:      eventsTotal,
		wsClients:        wsClients,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. Paths
// are labelled with the mux route template to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		path := routeTemplate(r)
		m.requestTotal.WithLabelValues(m.service, r.Method, path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// RecordAnalysis counts one analytics result. Label counts and the score
// are only observed for freshly computed records.
func (m *Metrics) RecordAnalysis(source string, labels map[string]int, score float64) {
	m.analysesTotal.WithLabelValues(source).Inc()
	if source != "computed" {
		return
	}
	for label, n := range labels {
		if n > 0 {
			m.sentimentLabels.WithLabelValues(label).Add(float64(n))
		}
	}
	m.performanceScore.Observe(score)
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) RecordEvent(direction, status string) {
	m.eventsTotal.WithLabelValues(direction, status).Inc()
}

func (m *Metrics) ClientConnected()    { m.wsClients.Inc() }
func (m *Metrics) ClientDisconnected() { m.wsClients.Dec() }

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

// Hijack keeps websocket upgrades working behind the middleware
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
