package batch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName  = "lingo-services-settlement.batch"
	tracerName = "lingo-services-settlement.batch"
)

var (
	attrPhase  = attribute.Key("phase")
	attrResult = attribute.Key("result")
	attrKind   = attribute.Key("kind")
)

type metrics struct {
	chunks      metric.Int64Counter
	rows        metric.Int64Counter
	retries     metric.Int64Counter
	downstream  metric.Int64Counter
	partitions  metric.Int64Counter
	partitionMs metric.Int64Histogram
}

func newMetrics() *metrics {
	m := otel.GetMeterProvider().Meter(meterName)
	chunks, _ := m.Int64Counter("settlement_batch_chunks_total",
		metric.WithDescription("Chunks processed per phase, by result"))
	rows, _ := m.Int64Counter("settlement_batch_rows_total",
		metric.WithDescription("Rows read, written and skipped per phase"))
	retries, _ := m.Int64Counter("settlement_batch_chunk_retries_total",
		metric.WithDescription("Chunk replays caused by transient storage errors"))
	downstream, _ := m.Int64Counter("settlement_batch_downstream_errors_total",
		metric.WithDescription("Post-commit side effects that failed and were not rolled back"))
	partitions, _ := m.Int64Counter("settlement_batch_partitions_total",
		metric.WithDescription("Partitions finished per phase, by result"))
	partitionMs, _ := m.Int64Histogram("settlement_batch_partition_duration_ms",
		metric.WithUnit("ms"))
	return &metrics{
		chunks:      chunks,
		rows:        rows,
		retries:     retries,
		downstream:  downstream,
		partitions:  partitions,
		partitionMs: partitionMs,
	}
}

func (m *metrics) recordChunk(ctx context.Context, phase string, result string, read, written, skipped int64) {
	if m == nil || m.chunks == nil {
		return
	}
	m.chunks.Add(ctx, 1, metric.WithAttributes(attrPhase.String(phase), attrResult.String(result)))
	if result != "success" || m.rows == nil {
		return
	}
	m.rows.Add(ctx, read, metric.WithAttributes(attrPhase.String(phase), attrKind.String("read")))
	m.rows.Add(ctx, written, metric.WithAttributes(attrPhase.String(phase), attrKind.String("written")))
	if skipped > 0 {
		m.rows.Add(ctx, skipped, metric.WithAttributes(attrPhase.String(phase), attrKind.String("skipped")))
	}
}

func (m *metrics) recordRetry(ctx context.Context, phase string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(attrPhase.String(phase)))
}

func (m *metrics) recordDownstream(ctx context.Context, phase string) {
	if m == nil || m.downstream == nil {
		return
	}
	m.downstream.Add(ctx, 1, metric.WithAttributes(attrPhase.String(phase)))
}

func (m *metrics) recordPartition(ctx context.Context, phase, result string, elapsed time.Duration) {
	if m == nil || m.partitions == nil {
		return
	}
	attrs := metric.WithAttributes(attrPhase.String(phase), attrResult.String(result))
	m.partitions.Add(ctx, 1, attrs)
	if m.partitionMs != nil {
		m.partitionMs.Record(ctx, elapsed.Milliseconds(), attrs)
	}
}
