package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CheckpointStore 持久化分区计划与进度。Advance 必须使用块事务的 sess。
type CheckpointStore interface {
	List(ctx context.Context, sess txmanager.Session, phase po.Phase, date time.Time) ([]*po.PartitionCheckpoint, error)
	Insert(ctx context.Context, sess txmanager.Session, runToken uuid.UUID, plan []po.PartitionCheckpoint) error
	Advance(ctx context.Context, sess txmanager.Session, key repositories.CheckpointKey, progress repositories.CheckpointProgress) error
	Mark(ctx context.Context, sess txmanager.Session, key repositories.CheckpointKey, status po.RunStatus, runToken uuid.UUID, errClass, errMsg string) error
}

// PartitionReport 汇总一个分区的执行结果。
type PartitionReport struct {
	Phase            po.Phase
	Partition        Partition
	Status           po.RunStatus
	Resumed          bool
	Chunks           int64
	RowsRead         int64
	RowsWritten      int64
	RowsSkipped      int64
	Retries          int64
	DownstreamErrors int64
	Err              error
}

// Orchestrator 驱动单个分区的块循环，并实现容错策略：
// 暂时性错误整块重放（指数退避，有上限）；校验错误跳过单条（分区内有上限）；
// 下游副作用错误不回滚，计数后继续；其余错误立即使分区失败。
type Orchestrator struct {
	tx          txmanager.Manager
	checkpoints CheckpointStore
	opts        Options
	log         *log.Helper
	metrics     *metrics
	tracer      trace.Tracer
}

// NewOrchestrator 构造 Orchestrator。
func NewOrchestrator(tx txmanager.Manager, checkpoints CheckpointStore, opts Options, logger log.Logger) *Orchestrator {
	return &Orchestrator{
		tx:          tx,
		checkpoints: checkpoints,
		opts:        opts.normalized(),
		log:         log.NewHelper(logger),
		metrics:     newMetrics(),
		tracer:      otel.Tracer(tracerName),
	}
}

// Options 返回归一化后的参数。
func (o *Orchestrator) Options() Options {
	return o.opts
}

func (o *Orchestrator) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = o.opts.Faults.InitialBackoff
	eb.MaxInterval = o.opts.Faults.MaxBackoff
	eb.MaxElapsedTime = 0
	retries := o.opts.Faults.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// plan 读取已持久化的分区计划；不存在时切分并登记。
//
// 重跑同一日期复用既有计划，但先校验其完整性，并为重新解析出的 ID 域中
// 尚未覆盖的部分追加分区，使迟到的数据与上次未登记完的计划都能被处理。
func (o *Orchestrator) plan(ctx context.Context, phase po.Phase, partitioner *Partitioner, run RunContext, grid int) ([]*po.PartitionCheckpoint, error) {
	date := run.TargetDate.Format(time.DateOnly)
	existing, err := o.checkpoints.List(ctx, nil, phase, run.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("load partition plan: %w", err)
	}
	rng, err := partitioner.Resolve(ctx, run.TargetDate)
	if err != nil {
		return nil, err
	}

	var additions []Partition
	if len(existing) == 0 {
		additions = partitioner.cut(rng, grid, run.TargetDate)
	} else {
		current := make([]Partition, 0, len(existing))
		for _, cp := range existing {
			current = append(current, Partition{Ordinal: cp.Ordinal, Start: cp.RangeStart, End: cp.RangeEnd, TargetDate: cp.TargetDate})
		}
		if err := ValidatePlan(current); err != nil {
			return nil, err
		}
		additions = partitioner.Extend(rng, current, run.TargetDate)
		if len(additions) == 0 {
			o.log.Infow("msg", "reuse partition plan", "phase", phase, "date", date, "partitions", len(existing))
			return existing, nil
		}
		o.log.Warnw("msg", "partition plan does not cover resolved range, extending", "phase", phase, "date", date,
			"partitions", len(existing), "added", len(additions), "min_id", rng.MinID, "max_id", rng.MaxID)
	}

	rows := make([]po.PartitionCheckpoint, 0, len(additions))
	for _, p := range additions {
		rows = append(rows, po.PartitionCheckpoint{
			Phase:      phase,
			TargetDate: run.TargetDate,
			Ordinal:    p.Ordinal,
			RangeStart: p.Start,
			RangeEnd:   p.End,
		})
	}
	err = o.tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		return o.checkpoints.Insert(txCtx, sess, run.RunToken, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("register partition plan: %w", err)
	}
	o.log.Infow("msg", "partition plan registered", "phase", phase, "date", date, "partitions", len(existing)+len(rows))
	return o.checkpoints.List(ctx, nil, phase, run.TargetDate)
}

type chunkResult struct {
	written    int64
	rejects    []Reject
	downstream error
}

// RunPartition 执行一个分区直到数据耗尽或失败。已 COMPLETED 的分区直接跳过。
func RunPartition[In, Out any](ctx context.Context, o *Orchestrator, phase po.Phase, step Step[In, Out], cp *po.PartitionCheckpoint, runToken uuid.UUID) PartitionReport {
	p := Partition{Ordinal: cp.Ordinal, Start: cp.RangeStart, End: cp.RangeEnd, TargetDate: cp.TargetDate}
	report := PartitionReport{
		Phase:       phase,
		Partition:   p,
		RowsRead:    cp.RowsRead,
		RowsWritten: cp.RowsWritten,
		RowsSkipped: cp.RowsSkipped,
	}
	if cp.Status == po.StatusCompleted {
		report.Status = po.StatusCompleted
		report.Resumed = true
		o.log.Infow("msg", "partition already completed", "phase", phase, "partition", p.String())
		return report
	}
	report.Resumed = cp.LastCommittedID != nil

	ctx, span := o.tracer.Start(ctx, "batch.partition", trace.WithAttributes(
		attribute.String("phase", string(phase)),
		attribute.Int("ordinal", p.Ordinal),
		attribute.Int64("range_start", p.Start),
		attribute.Int64("range_end", p.End),
	))
	defer span.End()
	started := time.Now()
	key := repositories.CheckpointKey{Phase: phase, TargetDate: cp.TargetDate, Ordinal: cp.Ordinal}

	fail := func(err error) PartitionReport {
		report.Status = po.StatusFailed
		report.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, faults.Reason(err))
		o.log.Errorw("msg", "partition failed", "phase", phase, "partition", p.String(),
			"error_class", faults.Reason(err), "error", err)
		markCtx := context.WithoutCancel(ctx)
		if markErr := o.checkpoints.Mark(markCtx, nil, key, po.StatusFailed, runToken, faults.Reason(err), err.Error()); markErr != nil {
			o.log.Errorw("msg", "mark partition failed", "phase", phase, "partition", p.String(), "error", markErr)
		}
		o.metrics.recordPartition(ctx, string(phase), "failure", time.Since(started))
		return report
	}

	if err := o.checkpoints.Mark(ctx, nil, key, po.StatusRunning, runToken, "", ""); err != nil {
		return fail(fmt.Errorf("mark partition running: %w", err))
	}

	src := step.Open(ctx, p, cp.LastCommittedID)
	defer src.Close()

	publisher, hasPublisher := step.(Publisher[Out])
	skipped := cp.RowsSkipped
	for {
		items, err := src.Next(ctx, o.opts.ChunkSize)
		if err != nil {
			return fail(fmt.Errorf("read partition %s: %w", p, err))
		}
		if len(items) == 0 {
			break
		}

		res, rows, attempts, err := processChunk(ctx, o, phase, step, p, key, items, skipped)
		report.Retries += int64(attempts - 1)
		if err != nil {
			o.metrics.recordChunk(ctx, string(phase), "failure", 0, 0, 0)
			return fail(err)
		}
		read := int64(len(items))
		rejected := int64(len(res.rejects))
		skipped += rejected
		report.Chunks++
		report.RowsRead += read
		report.RowsWritten += res.written
		report.RowsSkipped += rejected
		o.metrics.recordChunk(ctx, string(phase), "success", read, res.written, rejected)
		for _, rej := range res.rejects {
			o.log.Warnw("msg", "record skipped", "phase", phase, "partition", p.String(), "key", rej.Key, "error", rej.Err)
		}

		if res.downstream != nil {
			report.DownstreamErrors++
			o.metrics.recordDownstream(ctx, string(phase))
			o.log.Warnw("msg", "downstream side effect failed, chunk kept", "phase", phase, "partition", p.String(), "error", res.downstream)
		}
		if hasPublisher && len(rows) > 0 {
			if err := publisher.Publish(ctx, p, rows); err != nil {
				report.DownstreamErrors++
				o.metrics.recordDownstream(ctx, string(phase))
				o.log.Warnw("msg", "publish after commit failed", "phase", phase, "partition", p.String(), "error", err)
			}
		}
	}

	if err := o.checkpoints.Mark(ctx, nil, key, po.StatusCompleted, runToken, "", ""); err != nil {
		return fail(fmt.Errorf("mark partition completed: %w", err))
	}
	report.Status = po.StatusCompleted
	o.metrics.recordPartition(ctx, string(phase), "success", time.Since(started))
	o.log.Infow("msg", "partition completed", "phase", phase, "partition", p.String(),
		"chunks", report.Chunks, "rows_read", report.RowsRead, "rows_written", report.RowsWritten,
		"rows_skipped", report.RowsSkipped, "retries", report.Retries)
	return report
}

// processChunk 在一个事务内完成 transform + persist + checkpoint；暂时性错误整块重放。
func processChunk[In, Out any](ctx context.Context, o *Orchestrator, phase po.Phase, step Step[In, Out], p Partition, key repositories.CheckpointKey, items []In, skipped int64) (chunkResult, []Out, int, error) {
	var (
		result   chunkResult
		rows     []Out
		attempts int
	)
	limit := int64(o.opts.Faults.SkipLimit)
	last := step.Key(items[len(items)-1])

	op := func() error {
		attempts++
		result = chunkResult{}
		rows = nil
		err := o.tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
			t, err := step.Transform(txCtx, sess, p, items)
			if err != nil {
				return err
			}
			if total := skipped + int64(len(t.Rejects)); total > limit {
				return faults.Validation("partition %s: %d records failed validation, skip limit is %d: %v",
					p, total, limit, firstRejectErr(t.Rejects))
			}
			var written int64
			if len(t.Rows) > 0 {
				written, err = step.Persist(txCtx, sess, p, t.Rows)
				if err != nil {
					if faults.Classify(err) != faults.ClassNoRollback {
						return err
					}
					result.downstream = err
				}
			}
			if err := o.checkpoints.Advance(txCtx, sess, key, repositories.CheckpointProgress{
				LastCommittedID: &last,
				RowsRead:        int64(len(items)),
				RowsWritten:     written,
				RowsSkipped:     int64(len(t.Rejects)),
			}); err != nil {
				return fmt.Errorf("advance checkpoint: %w", err)
			}
			result.written = written
			result.rejects = t.Rejects
			rows = t.Rows
			return nil
		})
		if err == nil {
			return nil
		}
		if faults.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		o.metrics.recordRetry(ctx, string(phase))
		o.log.Warnw("msg", "transient storage error, replaying chunk", "phase", phase, "partition", p.String(),
			"attempt", attempts, "backoff", wait, "error", err)
	}
	err := backoff.RetryNotify(op, o.newBackOff(ctx), notify)
	if err != nil {
		if faults.IsTransient(err) {
			err = faults.Transient(fmt.Errorf("chunk ending at %d failed after %d attempts: %w", last, attempts, err))
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return chunkResult{}, nil, attempts, err
	}
	return result, rows, attempts, nil
}

func firstRejectErr(rejects []Reject) error {
	if len(rejects) == 0 {
		return nil
	}
	return rejects[0].Err
}
