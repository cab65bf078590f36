// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// AIパイプラインやミドルウェアから利用する。
type MetricsCollector interface {
	RecordAITaskSuccess(kind string)
	RecordAITaskFailure(kind string)
	RecordAILatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordApplicationCreated()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	aiTaskSuccess       *prometheus.CounterVec
	aiTaskFail          *prometheus.CounterVec
	aiLatency           prometheus.Histogram
	httpStatus          *prometheus.CounterVec
	applicationsCreated prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		aiTaskSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applytrack_ai_task_success_total",
			Help: "AIタスク成功の合計数（種別ごと）",
		}, []string{"kind"}),
		aiTaskFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applytrack_ai_task_fail_total",
			Help: "AIタスク失敗の合計数（種別ごと）",
		}, []string{"kind"}),
		aiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "applytrack_ai_latency_seconds",
			Help:    "AIモデル呼び出しのレイテンシ（秒）",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applytrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		applicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "applytrack_applications_created_total",
			Help: "作成された応募の合計数",
		}),
	}

	reg.MustRegister(
		c.aiTaskSuccess,
		c.aiTaskFail,
		c.aiLatency,
		c.httpStatus,
		c.applicationsCreated,
	)

	return c
}

// RecordAITaskSuccess はAIタスク成功を記録する。
func (c *Collector) RecordAITaskSuccess(kind string) {
	c.aiTaskSuccess.WithLabelValues(kind).Inc()
}

// RecordAITaskFailure はAIタスク失敗を記録する。
func (c *Collector) RecordAITaskFailure(kind string) {
	c.aiTaskFail.WithLabelValues(kind).Inc()
}

// RecordAILatency はAIモデル呼び出しのレイテンシを記録する。
func (c *Collector) RecordAILatency(duration time.Duration) {
	c.aiLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordApplicationCreated は応募の作成を記録する。
func (c *Collector) RecordApplicationCreated() {
	c.applicationsCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
