package batch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubPhase struct {
	name   po.Phase
	status po.RunStatus
	err    error
	order  *[]po.Phase
	mu     *sync.Mutex
}

func (s stubPhase) Name() po.Phase { return s.name }

func (s stubPhase) Run(context.Context, batch.RunContext) batch.PhaseReport {
	s.mu.Lock()
	*s.order = append(*s.order, s.name)
	s.mu.Unlock()
	return batch.PhaseReport{Phase: s.name, Status: s.status, Err: s.err}
}

type memRuns struct {
	started  []uuid.UUID
	finished []po.BatchRun
}

func (m *memRuns) Start(_ context.Context, token uuid.UUID, _ time.Time) error {
	m.started = append(m.started, token)
	return nil
}

func (m *memRuns) Finish(_ context.Context, run po.BatchRun) error {
	m.finished = append(m.finished, run)
	return nil
}

func TestSequencerRunsSettlementAfterStatistics(t *testing.T) {
	t.Parallel()

	var order []po.Phase
	var mu sync.Mutex
	runs := &memRuns{}
	seqr := batch.NewSequencer(
		stubPhase{name: po.PhaseStatistics, status: po.StatusCompleted, order: &order, mu: &mu},
		stubPhase{name: po.PhaseSettlement, status: po.StatusCompleted, order: &order, mu: &mu},
		runs, discard(),
	)
	run := batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()}

	report := seqr.Run(context.Background(), run)
	require.Equal(t, po.StatusCompleted, report.Status)
	require.Equal(t, []po.Phase{po.PhaseStatistics, po.PhaseSettlement}, order)
	require.Equal(t, []uuid.UUID{run.RunToken}, runs.started)
	require.Len(t, runs.finished, 1)
	require.Equal(t, po.StatusCompleted, runs.finished[0].SettlementStatus)
	require.Nil(t, runs.finished[0].ErrorClass)
	require.NotEmpty(t, report.LogFields())
}

func TestSequencerSkipsSettlementWhenStatisticsFails(t *testing.T) {
	t.Parallel()

	var order []po.Phase
	var mu sync.Mutex
	runs := &memRuns{}
	seqr := batch.NewSequencer(
		stubPhase{name: po.PhaseStatistics, status: po.StatusFailed, err: faults.Validation("too many bad rows"), order: &order, mu: &mu},
		stubPhase{name: po.PhaseSettlement, status: po.StatusCompleted, order: &order, mu: &mu},
		runs, discard(),
	)

	report := seqr.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusFailed, report.Status)
	require.Equal(t, po.StatusSkipped, report.Settlement.Status)
	require.Equal(t, []po.Phase{po.PhaseStatistics}, order)

	require.Len(t, runs.finished, 1)
	finished := runs.finished[0]
	require.Equal(t, po.StatusFailed, finished.Status)
	require.Equal(t, po.StatusFailed, finished.StatisticsStatus)
	require.Equal(t, po.StatusSkipped, finished.SettlementStatus)
	require.Equal(t, faults.ReasonValidation, *finished.ErrorClass)
	require.Equal(t, faults.Describe(report.Err), *finished.ErrorMessage)
	require.True(t, strings.HasPrefix(*finished.ErrorMessage, "VALIDATION: "))
}

func TestSequencerSettlementFailure(t *testing.T) {
	t.Parallel()

	var order []po.Phase
	var mu sync.Mutex
	seqr := batch.NewSequencer(
		stubPhase{name: po.PhaseStatistics, status: po.StatusCompleted, order: &order, mu: &mu},
		stubPhase{name: po.PhaseSettlement, status: po.StatusFailed, err: faults.Configuration("no rate"), order: &order, mu: &mu},
		nil, discard(),
	)

	report := seqr.Run(context.Background(), batch.RunContext{TargetDate: targetDate, RunToken: uuid.New()})
	require.Equal(t, po.StatusFailed, report.Status)
	require.True(t, errors.Is(report.Err, faults.ErrConfiguration))
}

func TestParseTargetDate(t *testing.T) {
	t.Parallel()

	date, err := batch.ParseTargetDate(" 2025-03-14 ")
	require.NoError(t, err)
	require.Equal(t, targetDate, date)

	for _, raw := range []string{"", "2025-13-01", "14/03/2025"} {
		_, err := batch.ParseTargetDate(raw)
		require.Error(t, err)
		require.Equal(t, faults.ReasonConfiguration, faults.Reason(err), "input %q", raw)
	}
}
