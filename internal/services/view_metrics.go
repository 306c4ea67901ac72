package services

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

var (
	viewMetricsMu       sync.Mutex
	viewMetricsEnabled  bool
	viewRecordCounter   metric.Int64Counter
	cacheDegradeCounter metric.Int64Counter
	syncBucketCounter   metric.Int64Counter
	syncViewCounter     metric.Int64Counter
)

const (
	viewRecordMetricName   = "settlement_view_records_total"
	cacheDegradeMetricName = "settlement_cache_degraded_total"
	syncBucketMetricName   = "settlement_view_sync_buckets_total"
	syncViewMetricName     = "settlement_view_sync_views_total"
)

var (
	attrOutcome = attribute.Key("outcome")
	attrCheck   = attribute.Key("check")
	attrReason  = attribute.Key("reason")
	attrResult  = attribute.Key("result")
)

type viewMetrics struct {
	enabled bool
}

func newViewMetrics() *viewMetrics {
	viewMetricsMu.Lock()
	defer viewMetricsMu.Unlock()
	if !viewMetricsEnabled {
		initViewMetricsLocked()
	}
	return &viewMetrics{enabled: viewMetricsEnabled}
}

func initViewMetricsLocked() {
	provider := otel.GetMeterProvider()
	if provider == nil {
		provider = noopmetric.NewMeterProvider()
	}
	meter := provider.Meter("lingo-services-settlement.services.views")

	var err error
	viewRecordCounter, err = meter.Int64Counter(viewRecordMetricName,
		metric.WithDescription("Number of recorded views by outcome"))
	if err != nil {
		return
	}
	cacheDegradeCounter, err = meter.Int64Counter(cacheDegradeMetricName,
		metric.WithDescription("Number of cache checks that fell back to the fail-safe default"))
	if err != nil {
		return
	}
	syncBucketCounter, err = meter.Int64Counter(syncBucketMetricName,
		metric.WithDescription("Number of minute buckets drained into lifetime counters"))
	if err != nil {
		return
	}
	syncViewCounter, err = meter.Int64Counter(syncViewMetricName,
		metric.WithDescription("Number of views flushed into lifetime counters"))
	if err != nil {
		return
	}
	viewMetricsEnabled = true
}

func (m *viewMetrics) recordView(ctx context.Context, outcome string) {
	if m == nil || !m.enabled {
		return
	}
	viewRecordCounter.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

func (m *viewMetrics) recordDegraded(ctx context.Context, check, reason string) {
	if m == nil || !m.enabled {
		return
	}
	cacheDegradeCounter.Add(ctx, 1, metric.WithAttributes(attrCheck.String(check), attrReason.String(reason)))
}

func (m *viewMetrics) recordBucket(ctx context.Context, result string, views int64) {
	if m == nil || !m.enabled {
		return
	}
	syncBucketCounter.Add(ctx, 1, metric.WithAttributes(attrResult.String(result)))
	if views > 0 {
		syncViewCounter.Add(ctx, views)
	}
}
