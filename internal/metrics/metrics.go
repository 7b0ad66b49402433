package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics はゲートウェイの監視用メトリクスを保持する。
type Metrics struct {
	// UpstreamRequests は上流APIへの呼び出し回数。operationと結果のエラー種別で分類する。
	UpstreamRequests *prometheus.CounterVec
	// UpstreamDuration は上流APIの応答時間。
	UpstreamDuration *prometheus.HistogramVec
	// GraphQLOperations はGraphQL操作の実行回数。操作種別（query/mutation）と結果で分類する。
	GraphQLOperations *prometheus.CounterVec
}

// NewMetrics は指定したRegistererにメトリクスを登録して返す。
// テストでは prometheus.NewRegistry() を渡して独立したレジストリを使う。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_gateway_upstream_requests_total",
			Help: "Total number of calls to the employee REST API.",
		}, []string{"operation", "code"}),
		UpstreamDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_gateway_upstream_request_duration_seconds",
			Help:    "Duration of calls to the employee REST API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		GraphQLOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_gateway_graphql_operations_total",
			Help: "Total number of executed GraphQL operations.",
		}, []string{"type", "status"}),
	}

	for _, typ := range []string{"query", "mutation"} {
		m.GraphQLOperations.WithLabelValues(typ, "success")
		m.GraphQLOperations.WithLabelValues(typ, "error")
	}

	return m
}
