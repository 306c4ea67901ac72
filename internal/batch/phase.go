package batch

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RunContext 标识一次日批运行。
type RunContext struct {
	TargetDate time.Time
	RunToken   uuid.UUID
}

// PhaseReport 汇总一个阶段全部分区的结果。
type PhaseReport struct {
	Phase      po.Phase
	Status     po.RunStatus
	Partitions []PartitionReport
	Err        error
}

// Totals 汇总行数。
func (r PhaseReport) Totals() (read, written, skipped int64) {
	for _, p := range r.Partitions {
		read += p.RowsRead
		written += p.RowsWritten
		skipped += p.RowsSkipped
	}
	return read, written, skipped
}

// Failed 返回失败分区数。
func (r PhaseReport) Failed() int {
	n := 0
	for _, p := range r.Partitions {
		if p.Status == po.StatusFailed {
			n++
		}
	}
	return n
}

// PhaseRunner 由 Sequencer 按顺序调用。
type PhaseRunner interface {
	Name() po.Phase
	Run(ctx context.Context, run RunContext) PhaseReport
}

// Phase 把一个 Step 应用到某日期的全部分区，分区间由固定大小的 worker 池并行。
type Phase[In, Out any] struct {
	name        po.Phase
	orch        *Orchestrator
	partitioner *Partitioner
	step        Step[In, Out]
	opts        PhaseOptions
}

// NewPhase 构造 Phase。
func NewPhase[In, Out any](name po.Phase, orch *Orchestrator, partitioner *Partitioner, step Step[In, Out], opts PhaseOptions) *Phase[In, Out] {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.GridSize <= 0 {
		opts.GridSize = 1
	}
	return &Phase[In, Out]{name: name, orch: orch, partitioner: partitioner, step: step, opts: opts}
}

// Name 实现 PhaseRunner。
func (ph *Phase[In, Out]) Name() po.Phase {
	return ph.name
}

// Run 实现 PhaseRunner。单个分区失败不取消其他分区；任一分区失败则阶段失败。
func (ph *Phase[In, Out]) Run(ctx context.Context, run RunContext) PhaseReport {
	report := PhaseReport{Phase: ph.name}
	plan, err := ph.orch.plan(ctx, ph.name, ph.partitioner, run, ph.opts.GridSize)
	if err != nil {
		report.Status = po.StatusFailed
		report.Err = err
		ph.orch.log.Errorw("msg", "phase planning failed", "phase", ph.name, "error_class", faults.Reason(err), "error", err)
		return report
	}

	reports := make([]PartitionReport, len(plan))
	var g errgroup.Group
	g.SetLimit(ph.opts.Workers)
	for i, cp := range plan {
		g.Go(func() error {
			reports[i] = RunPartition(ctx, ph.orch, ph.name, ph.step, cp, run.RunToken)
			return nil
		})
	}
	_ = g.Wait()

	report.Partitions = reports
	report.Status = po.StatusCompleted
	for _, pr := range reports {
		if pr.Status == po.StatusFailed {
			report.Status = po.StatusFailed
			if report.Err == nil {
				report.Err = pr.Err
			}
		}
	}
	read, written, skipped := report.Totals()
	ph.orch.log.Infow("msg", "phase finished", "phase", ph.name, "status", report.Status,
		"partitions", len(reports), "failed", report.Failed(),
		"rows_read", read, "rows_written", written, "rows_skipped", skipped)
	return report
}
