package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they need
type Metrics struct {
	registry    *prometheus.Registry
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	aiReqCnt    *prometheus.CounterVec
	aiReqDur    *prometheus.HistogramVec
	redeemCnt   prometheus.Counter
	commission  prometheus.Counter
	profileCnt  *prometheus.CounterVec
	historySave *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:    r,
		httpReqCnt:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"}),
		httpDur:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"}),
		httpInfl:    prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"}),
		aiReqCnt:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "ai_requests_total"}, []string{"operation", "outcome"}),
		aiReqDur:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "ai_request_duration_seconds", Buckets: buckets}, []string{"operation"}),
		redeemCnt:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "redemptions_total"}),
		commission:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "commission_due_total"}),
		profileCnt:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "profiles_created_total"}, []string{"role", "persisted"}),
		historySave: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "prompt_history_saved_total"}, []string{"type"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl, m.aiReqCnt, m.aiReqDur,
		m.redeemCnt, m.commission, m.profileCnt, m.historySave)
	return m
}

// AIRequestDone records one gateway call
func (m *Metrics) AIRequestDone(operation, outcome string, since time.Time) {
	if m == nil {
		return
	}
	m.aiReqCnt.WithLabelValues(operation, outcome).Inc()
	m.aiReqDur.WithLabelValues(operation).Observe(time.Since(since).Seconds())
}

// Redeemed records a committed redemption and the commission it accrued
func (m *Metrics) Redeemed(commissionDue float64) {
	if m == nil {
		return
	}
	m.redeemCnt.Inc()
	if commissionDue > 0 {
		m.commission.Add(commissionDue)
	}
}

// ProfileCreated records a lazily created profile
func (m *Metrics) ProfileCreated(role string, persisted bool) {
	if m == nil {
		return
	}
	m.profileCnt.WithLabelValues(role, strconv.FormatBool(persisted)).Inc()
}

// PromptSaved records a prompt history entry
func (m *Metrics) PromptSaved(kind string) {
	if m == nil {
		return
	}
	m.historySave.WithLabelValues(kind).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
