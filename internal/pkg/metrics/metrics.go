// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SagaOutcomes 统计取消 saga 的最终结果，label 为 completed / failed。
	SagaOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsunaguma",
		Subsystem: "order",
		Name:      "cancellation_saga_total",
		Help:      "Outcomes of order cancellation saga invocations.",
	}, []string{"outcome"})

	// SettlementCache 统计结算快照缓存命中情况，label 为 hit / miss。
	SettlementCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsunaguma",
		Subsystem: "order",
		Name:      "settlement_cache_total",
		Help:      "Settlement snapshot cache lookups.",
	}, []string{"result"})

	// BillingDuration 观测账单聚合耗时。
	BillingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tsunaguma",
		Subsystem: "order",
		Name:      "billing_aggregation_seconds",
		Help:      "Duration of store billing aggregation.",
		Buckets:   prometheus.DefBuckets,
	})
)
