// Package metrics 提供AI调用相关的Prometheus指标
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 调用结果标签
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeProvider    = "provider_error"
	OutcomeTransport   = "transport_error"
)

var (
	// AIRequestsTotal 按结果统计的模型调用次数
	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulmap",
			Name:      "ai_requests_total",
			Help:      "Total number of generative model calls",
		},
		[]string{"model", "outcome"},
	)

	// AIRequestDuration 模型调用耗时
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "soulmap",
			Name:      "ai_request_duration_seconds",
			Help:      "Duration of generative model calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model"},
	)

	// AITokensTotal 模型报告的token消耗
	AITokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulmap",
			Name:      "ai_tokens_total",
			Help:      "Total tokens reported by the generative model",
		},
		[]string{"model"},
	)

	// AIDegradedTotal 返回降级结果的次数
	AIDegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulmap",
			Name:      "ai_degraded_total",
			Help:      "Total number of degraded (mock) analysis results",
		},
		[]string{"operation", "reason"},
	)

	// HTTPRequestsTotal 按路由统计的HTTP请求
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulmap",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordAICall 记录一次模型调用
func RecordAICall(model, outcome string, seconds float64, tokens int) {
	AIRequestsTotal.WithLabelValues(model, outcome).Inc()
	AIRequestDuration.WithLabelValues(model).Observe(seconds)
	if tokens > 0 {
		AITokensTotal.WithLabelValues(model).Add(float64(tokens))
	}
}

// RecordDegraded 记录一次降级
func RecordDegraded(operation, reason string) {
	AIDegradedTotal.WithLabelValues(operation, reason).Inc()
}

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, route string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
