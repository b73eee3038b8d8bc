package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuscare/support-triage/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	decisionsTotal     *prometheus.CounterVec
	stopRuleTotal      *prometheus.CounterVec
	manualReviewTotal  *prometheus.CounterVec
	confirmationTotal  *prometheus.CounterVec
	validationsTotal   *prometheus.CounterVec
	reliabilityScore   *prometheus.HistogramVec
	validationWarnings *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "triage",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	decisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "router",
			Name:      "decisions_total",
			Help:      "Total routing decisions by branch and action.",
		},
		[]string{"service", "branch", "action"},
	)
	stopRuleTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "router",
			Name:      "stop_rule_total",
			Help:      "Total requests short-circuited by the low-need stop rule.",
		},
		[]string{"service"},
	)
	manualReviewTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "router",
			Name:      "manual_review_total",
			Help:      "Total decisions flagged for manual review.",
		},
		[]string{"service"},
	)
	confirmationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "router",
			Name:      "confirmation_required_total",
			Help:      "Total decisions requiring user confirmation.",
		},
		[]string{"service"},
	)
	validationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "validator",
			Name:      "facilities_total",
			Help:      "Total validated facilities by confidence level.",
		},
		[]string{"service", "confidence_level"},
	)
	reliabilityScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "validator",
			Name:      "reliability_score",
			Help:      "Distribution of facility reliability scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)
	validationWarnings := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "validator",
			Name:      "warnings_per_facility",
			Help:      "Distribution of warnings attached per validated facility.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		decisionsTotal,
		stopRuleTotal,
		manualReviewTotal,
		confirmationTotal,
		validationsTotal,
		reliabilityScore,
		validationWarnings,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		decisionsTotal:     decisionsTotal,
		stopRuleTotal:      stopRuleTotal,
		manualReviewTotal:  manualReviewTotal,
		confirmationTotal:  confirmationTotal,
		validationsTotal:   validationsTotal,
		reliabilityScore:   reliabilityScore,
		validationWarnings: validationWarnings,
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

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/decisions/"):
		return "/v1/decisions/{decision_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordDecision(service string, decision domain.RoutingDecision) {
	m.decisionsTotal.WithLabelValues(service, string(decision.Branch), string(decision.Action)).Inc()
	if decision.Terminal() {
		m.stopRuleTotal.WithLabelValues(service).Inc()
	}
	if decision.RequiresManualReview {
		m.manualReviewTotal.WithLabelValues(service).Inc()
	}
	if decision.RequiresConfirmation {
		m.confirmationTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordFacilityValidation(service string, result domain.ValidationResult) {
	level := string(result.ConfidenceLevel)
	if level == "" {
		level = "unknown"
	}
	m.validationsTotal.WithLabelValues(service, level).Inc()
	m.reliabilityScore.WithLabelValues(service).Observe(result.ReliabilityScore)
	m.validationWarnings.WithLabelValues(service).Observe(float64(len(result.Warnings)))
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
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
