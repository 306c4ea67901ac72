package dailybatch

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "lingo-services-settlement.dailybatch"

type metrics struct {
	runCounter        metric.Int64Counter
	durationHistogram metric.Int64Histogram
}

func newMetrics() *metrics {
	m := otel.GetMeterProvider().Meter(meterName)
	runCounter, _ := m.Int64Counter("settlement_batch_runs_total")
	durationHistogram, _ := m.Int64Histogram("settlement_batch_run_duration_ms")
	return &metrics{runCounter: runCounter, durationHistogram: durationHistogram}
}

func (m *metrics) recordRun(ctx context.Context, status po.RunStatus, elapsed time.Duration) {
	if m == nil || m.runCounter == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", string(status)))
	m.runCounter.Add(ctx, 1, attrs)
	if m.durationHistogram != nil {
		m.durationHistogram.Record(ctx, elapsed.Milliseconds(), attrs)
	}
}
