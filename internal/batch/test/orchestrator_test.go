package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type phaseFixture struct {
	cps      *memCheckpoints
	resolves *int32
	phase    *batch.Phase[int64, int64]
	run      batch.RunContext
}

func newPhaseFixture(step batch.Step[int64, int64], rng po.IDRange, partitions int) phaseFixture {
	cps := newMemCheckpoints()
	var resolves int32
	resolver := batch.RangeResolverFunc(func(context.Context, time.Time) (po.IDRange, error) {
		atomic.AddInt32(&resolves, 1)
		return rng, nil
	})
	orch := batch.NewOrchestrator(fakeTxManager{}, cps, testOptions(), discard())
	partitioner := batch.NewPartitioner(resolver, batch.SizeTiers{{Below: 0, Partitions: partitions}})
	phase := batch.NewPhase(po.PhaseStatistics, orch, partitioner, step, batch.PhaseOptions{Workers: 2, GridSize: partitions})
	return phaseFixture{
		cps:      cps,
		resolves: &resolves,
		phase:    phase,
		run:      batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()},
	}
}

func fullRange(from, to int64) po.IDRange {
	return po.IDRange{MinID: from, MaxID: to, Count: to - from + 1}
}

func TestPhaseProcessesAllRecordsInChunks(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 10)}
	fx := newPhaseFixture(step, fullRange(1, 10), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.NoError(t, report.Err)
	require.Len(t, report.Partitions, 1)
	require.Equal(t, int64(4), report.Partitions[0].Chunks)

	want := make([]int64, 0, 10)
	for _, v := range seq(1, 10) {
		want = append(want, v*10)
	}
	require.Equal(t, want, step.snapshot())

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 0)
	require.Equal(t, po.StatusCompleted, cp.Status)
	require.Equal(t, int64(10), *cp.LastCommittedID)
	require.Equal(t, int64(10), cp.RowsRead)
	require.Equal(t, int64(10), cp.RowsWritten)
	require.Zero(t, cp.RowsSkipped)
	require.Equal(t, fx.run.RunToken, cp.RunToken)
}

func TestTransientErrorReplaysChunk(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 4), transient: 2}
	fx := newPhaseFixture(step, fullRange(1, 4), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Equal(t, int64(2), report.Partitions[0].Retries)
	require.Equal(t, []int64{10, 20, 30, 40}, step.snapshot())
	require.Equal(t, int64(4), fx.cps.get(po.PhaseStatistics, targetDate, 0).RowsWritten)
}

func TestTransientExhaustionFailsPartition(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 4), transient: 100}
	fx := newPhaseFixture(step, fullRange(1, 4), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusFailed, report.Status)
	require.Equal(t, faults.ReasonTransientStorage, faults.Reason(report.Err))
	require.ErrorIs(t, report.Err, faults.ErrTransientStorage)
	require.Equal(t, 3, step.calls)

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 0)
	require.Equal(t, po.StatusFailed, cp.Status)
	require.Equal(t, faults.ReasonTransientStorage, *cp.ErrorClass)
	require.Nil(t, cp.LastCommittedID)
}

func TestValidationErrorsSkippedWithinLimit(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 6), invalid: map[int64]bool{2: true, 5: true}}
	fx := newPhaseFixture(step, fullRange(1, 6), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Equal(t, []int64{10, 30, 40, 60}, step.snapshot())

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 0)
	require.Equal(t, int64(2), cp.RowsSkipped)
	require.Equal(t, int64(6), cp.RowsRead)
	require.Equal(t, int64(4), cp.RowsWritten)
}

func TestSkipLimitExceededFailsPartition(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 9), invalid: map[int64]bool{2: true, 5: true, 8: true}}
	fx := newPhaseFixture(step, fullRange(1, 9), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusFailed, report.Status)
	require.Equal(t, faults.ReasonValidation, faults.Reason(report.Err))

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 0)
	require.Equal(t, int64(6), *cp.LastCommittedID, "chunk exceeding the limit is not committed")
	require.Equal(t, int64(2), cp.RowsSkipped)
	require.Equal(t, []int64{10, 30, 40, 60}, step.snapshot())
}

func TestFatalErrorFailsWithoutRetry(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 9), fatal: map[int64]bool{4: true}}
	fx := newPhaseFixture(step, fullRange(1, 9), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusFailed, report.Status)
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(report.Err))
	require.Zero(t, report.Partitions[0].Retries)
	require.Equal(t, 1, step.calls)

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 0)
	require.Equal(t, int64(3), *cp.LastCommittedID)
	require.Equal(t, faults.ReasonConfiguration, *cp.ErrorClass)
}

func TestDownstreamErrorKeepsCommittedChunk(t *testing.T) {
	t.Parallel()

	inner := &intStep{data: seq(1, 6)}
	inner.publishFn = func([]int64) error {
		return faults.Downstream("publish snapshot", context.DeadlineExceeded)
	}
	fx := newPhaseFixture(publishingStep{inner}, fullRange(1, 6), 1)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Equal(t, int64(2), report.Partitions[0].DownstreamErrors)
	require.Len(t, inner.snapshot(), 6)
}

func TestResumeSkipsCompletedAndContinuesFromCursor(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 10)}
	fx := newPhaseFixture(step, fullRange(1, 10), 2)

	token := uuid.New()
	require.NoError(t, fx.cps.Insert(context.Background(), nil, token, []po.PartitionCheckpoint{
		{Phase: po.PhaseStatistics, TargetDate: targetDate, Ordinal: 0, RangeStart: 1, RangeEnd: 5},
		{Phase: po.PhaseStatistics, TargetDate: targetDate, Ordinal: 1, RangeStart: 6, RangeEnd: 10},
	}))
	fx.cps.rows[keyOf(po.PhaseStatistics, targetDate, 0)].Status = po.StatusCompleted
	cursor := int64(7)
	second := fx.cps.rows[keyOf(po.PhaseStatistics, targetDate, 1)]
	second.Status = po.StatusFailed
	second.LastCommittedID = &cursor
	second.RowsRead, second.RowsWritten = 2, 2

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Len(t, report.Partitions, 2, "covering plan is reused as is")
	require.True(t, report.Partitions[0].Resumed)
	require.True(t, report.Partitions[1].Resumed)
	require.Equal(t, []int64{80, 90, 100}, step.snapshot())
	require.Len(t, step.opened, 1)
	require.Equal(t, int64(7), *step.opened[0])

	cp := fx.cps.get(po.PhaseStatistics, targetDate, 1)
	require.Equal(t, int64(5), cp.RowsRead)
	require.Equal(t, po.StatusCompleted, cp.Status)
}

func TestRerunIsIdempotentOnceCompleted(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 10)}
	fx := newPhaseFixture(step, fullRange(1, 10), 2)

	first := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, first.Status)
	second := fx.phase.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusCompleted, second.Status)

	require.Equal(t, int32(2), atomic.LoadInt32(fx.resolves))
	require.Len(t, second.Partitions, 2)
	require.Len(t, step.snapshot(), 10)
	for _, pr := range second.Partitions {
		require.True(t, pr.Resumed)
	}
}

func TestPartitionFailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 10), fatal: map[int64]bool{2: true}}
	fx := newPhaseFixture(step, fullRange(1, 10), 2)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusFailed, report.Status)
	require.Equal(t, 1, report.Failed())
	require.Equal(t, po.StatusFailed, report.Partitions[0].Status)
	require.Equal(t, po.StatusCompleted, report.Partitions[1].Status)
	require.ElementsMatch(t, []int64{60, 70, 80, 90, 100}, step.snapshot())
}

func TestEmptyDayRunsDegeneratePartition(t *testing.T) {
	t.Parallel()

	step := &intStep{}
	fx := newPhaseFixture(step, po.IDRange{}, 4)

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Len(t, report.Partitions, 1)
	require.True(t, report.Partitions[0].Partition.Empty())
	require.Empty(t, step.snapshot())
}

// prefixCheckpoints 模拟非事务存储：第一次 Insert 只落下前两行后报错。
type prefixCheckpoints struct {
	*memCheckpoints
	failed bool
}

func (s *prefixCheckpoints) Insert(ctx context.Context, sess txmanager.Session, runToken uuid.UUID, plan []po.PartitionCheckpoint) error {
	if !s.failed {
		s.failed = true
		_ = s.memCheckpoints.Insert(ctx, sess, runToken, plan[:2])
		return errors.New("connection reset while registering plan")
	}
	return s.memCheckpoints.Insert(ctx, sess, runToken, plan)
}

func TestPartialPlanIsExtendedOnRerun(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 100)}
	cps := &prefixCheckpoints{memCheckpoints: newMemCheckpoints()}
	resolver := batch.RangeResolverFunc(func(context.Context, time.Time) (po.IDRange, error) {
		return fullRange(1, 100), nil
	})
	orch := batch.NewOrchestrator(fakeTxManager{}, cps, testOptions(), discard())
	partitioner := batch.NewPartitioner(resolver, batch.SizeTiers{{Below: 0, Partitions: 4}})
	phase := batch.NewPhase(po.PhaseStatistics, orch, partitioner, step, batch.PhaseOptions{Workers: 2, GridSize: 4})

	first := phase.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusFailed, first.Status)
	require.Empty(t, step.snapshot())

	second := phase.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusCompleted, second.Status)
	require.Len(t, step.snapshot(), 100, "rows past the persisted prefix must be processed")

	plan, err := cps.List(context.Background(), nil, po.PhaseStatistics, targetDate)
	require.NoError(t, err)
	require.Greater(t, len(plan), 2)
	for i, cp := range plan {
		require.Equal(t, i, cp.Ordinal)
		require.Equal(t, po.StatusCompleted, cp.Status)
	}
	require.Equal(t, int64(1), plan[0].RangeStart)
	require.Equal(t, int64(100), plan[len(plan)-1].RangeEnd)
	for i := 1; i < len(plan); i++ {
		require.Equal(t, plan[i-1].RangeEnd+1, plan[i].RangeStart)
	}
}

func TestRerunExtendsPlanForLateRows(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 16)}
	fx := newPhaseFixture(step, fullRange(1, 10), 2)
	first := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusCompleted, first.Status)
	require.Len(t, step.snapshot(), 10)

	cps := fx.cps
	resolver := batch.RangeResolverFunc(func(context.Context, time.Time) (po.IDRange, error) {
		return fullRange(1, 16), nil
	})
	orch := batch.NewOrchestrator(fakeTxManager{}, cps, testOptions(), discard())
	partitioner := batch.NewPartitioner(resolver, batch.SizeTiers{{Below: 0, Partitions: 2}})
	phase := batch.NewPhase(po.PhaseStatistics, orch, partitioner, step, batch.PhaseOptions{Workers: 2, GridSize: 2})

	second := phase.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusCompleted, second.Status)
	require.Len(t, second.Partitions, 4)
	require.True(t, second.Partitions[0].Resumed)
	require.True(t, second.Partitions[1].Resumed)
	require.Equal(t, batch.Partition{Ordinal: 2, Start: 11, End: 13, TargetDate: targetDate}, second.Partitions[2].Partition)
	require.Equal(t, batch.Partition{Ordinal: 3, Start: 14, End: 16, TargetDate: targetDate}, second.Partitions[3].Partition)
	require.Len(t, step.snapshot(), 16)
}

func TestCorruptPlanFailsPhase(t *testing.T) {
	t.Parallel()

	step := &intStep{data: seq(1, 10)}
	fx := newPhaseFixture(step, fullRange(1, 10), 2)
	require.NoError(t, fx.cps.Insert(context.Background(), nil, uuid.New(), []po.PartitionCheckpoint{
		{Phase: po.PhaseStatistics, TargetDate: targetDate, Ordinal: 0, RangeStart: 1, RangeEnd: 6},
		{Phase: po.PhaseStatistics, TargetDate: targetDate, Ordinal: 1, RangeStart: 5, RangeEnd: 10},
	}))

	report := fx.phase.Run(context.Background(), fx.run)
	require.Equal(t, po.StatusFailed, report.Status)
	require.ErrorIs(t, report.Err, faults.ErrConfiguration)
	require.Empty(t, step.snapshot())
}
