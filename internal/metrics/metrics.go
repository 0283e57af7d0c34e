// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type Recorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordAuthFailure(kind string)
	RecordSettlement()
	RecordInconsistentSettlement()
	RecordPaymentIntent()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus             *prometheus.CounterVec
	requestLatency         prometheus.Histogram
	authFailures           *prometheus.CounterVec
	settlements            prometheus.Counter
	inconsistentSettlement prometheus.Counter
	paymentIntents         prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bistro_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_auth_failures_total",
			Help: "認証・認可失敗の合計数（kind別）",
		}, []string{"kind"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_settlements_total",
			Help: "決済確定の合計数",
		}),
		inconsistentSettlement: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_inconsistent_settlements_total",
			Help: "カート削除件数が入力と一致しなかった決済確定の合計数",
		}),
		paymentIntents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_payment_intents_total",
			Help: "決済インテント作成の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.authFailures,
		c.settlements,
		c.inconsistentSettlement,
		c.paymentIntents,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthFailure は認証・認可失敗を記録する。kindはunauthenticatedまたはforbidden。
func (c *Collector) RecordAuthFailure(kind string) {
	c.authFailures.WithLabelValues(kind).Inc()
}

// RecordSettlement は決済確定を記録する。
func (c *Collector) RecordSettlement() {
	c.settlements.Inc()
}

// RecordInconsistentSettlement はカート削除が完全一致しなかった決済確定を記録する。
func (c *Collector) RecordInconsistentSettlement() {
	c.inconsistentSettlement.Inc()
}

// RecordPaymentIntent は決済インテント作成を記録する。
func (c *Collector) RecordPaymentIntent() {
	c.paymentIntents.Inc()
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
