package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP 请求计数
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quality_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP 请求耗时
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quality_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 提交结果：saved / invalid / failed
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quality_records_submitted_total",
			Help: "Record submissions by outcome",
		},
		[]string{"result"},
	)

	// 导出结果：ok / degraded / empty / failed
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quality_exports_total",
			Help: "Exports by format and outcome",
		},
		[]string{"format", "result"},
	)

	// 存储读取失败
	storeReadErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quality_store_read_errors_total",
			Help: "Failed reads of the record store",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(submissionsTotal)
	prometheus.MustRegister(exportsTotal)
	prometheus.MustRegister(storeReadErrors)
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest 记录一次 HTTP 请求
func RecordRequest(method, path string, status int, seconds float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	requestsTotal.WithLabelValues(method, path, statusText).Inc()
	requestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordSubmission 记录提交结果
func RecordSubmission(result string) {
	submissionsTotal.WithLabelValues(result).Inc()
}

// RecordExport 记录导出结果
func RecordExport(format, result string) {
	exportsTotal.WithLabelValues(format, result).Inc()
}

// RecordStoreReadError 记录读取失败
func RecordStoreReadError() {
	storeReadErrors.Inc()
}
