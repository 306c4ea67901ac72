package batch_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeTxManager struct{}

type fakeSession struct{ ctx context.Context }

func (fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

func discard() log.Logger { return log.NewStdLogger(io.Discard) }

type cpKey struct {
	phase   po.Phase
	date    string
	ordinal int
}

// memCheckpoints 是 CheckpointStore 的内存实现。
type memCheckpoints struct {
	mu   sync.Mutex
	rows map[cpKey]*po.PartitionCheckpoint
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{rows: make(map[cpKey]*po.PartitionCheckpoint)}
}

func keyOf(phase po.Phase, date time.Time, ordinal int) cpKey {
	return cpKey{phase: phase, date: date.Format(time.DateOnly), ordinal: ordinal}
}

func (m *memCheckpoints) List(_ context.Context, _ txmanager.Session, phase po.Phase, date time.Time) ([]*po.PartitionCheckpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*po.PartitionCheckpoint
	for k, v := range m.rows {
		if k.phase == phase && k.date == date.Format(time.DateOnly) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (m *memCheckpoints) Insert(_ context.Context, _ txmanager.Session, runToken uuid.UUID, plan []po.PartitionCheckpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range plan {
		k := keyOf(cp.Phase, cp.TargetDate, cp.Ordinal)
		if _, ok := m.rows[k]; ok {
			continue
		}
		row := cp
		row.Status = po.StatusPending
		row.RunToken = runToken
		m.rows[k] = &row
	}
	return nil
}

func (m *memCheckpoints) Advance(_ context.Context, _ txmanager.Session, key repositories.CheckpointKey, progress repositories.CheckpointProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[keyOf(key.Phase, key.TargetDate, key.Ordinal)]
	if !ok {
		return repositories.ErrCheckpointNotFound
	}
	if progress.LastCommittedID != nil {
		v := *progress.LastCommittedID
		row.LastCommittedID = &v
	}
	row.RowsRead += progress.RowsRead
	row.RowsWritten += progress.RowsWritten
	row.RowsSkipped += progress.RowsSkipped
	row.Status = po.StatusRunning
	return nil
}

func (m *memCheckpoints) Mark(_ context.Context, _ txmanager.Session, key repositories.CheckpointKey, status po.RunStatus, runToken uuid.UUID, errClass, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[keyOf(key.Phase, key.TargetDate, key.Ordinal)]
	if !ok {
		return repositories.ErrCheckpointNotFound
	}
	row.Status = status
	row.RunToken = runToken
	row.ErrorClass, row.ErrorMessage = nil, nil
	if errClass != "" {
		row.ErrorClass = &errClass
		row.ErrorMessage = &errMsg
	}
	return nil
}

func (m *memCheckpoints) get(phase po.Phase, date time.Time, ordinal int) po.PartitionCheckpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[keyOf(phase, date, ordinal)]
}

// intStep 处理一组整数键：键即记录本身。
type intStep struct {
	mu        sync.Mutex
	data      []int64
	invalid   map[int64]bool
	fatal     map[int64]bool
	transient int // Persist 前 n 次返回死锁
	persisted []int64
	calls     int
	publishFn func([]int64) error
	opened    []*int64
}

func (s *intStep) Open(_ context.Context, p batch.Partition, resume *int64) batch.Source[int64] {
	s.mu.Lock()
	s.opened = append(s.opened, resume)
	s.mu.Unlock()
	cursor := p.Start - 1
	if resume != nil {
		cursor = *resume
	}
	fetch := func(_ context.Context, after int64, limit int) ([]int64, error) {
		var out []int64
		for _, v := range s.data {
			if v > after && v <= p.End && len(out) < limit {
				out = append(out, v)
			}
		}
		return out, nil
	}
	return batch.NewKeysetSource[int64](fetch, func(v int64) int64 { return v }, cursor)
}

func (s *intStep) Key(v int64) int64 { return v }

func (s *intStep) Transform(_ context.Context, _ txmanager.Session, _ batch.Partition, items []int64) (batch.Transformed[int64], error) {
	return batch.TransformEach(items, s.Key, func(v int64) (int64, error) {
		if s.fatal[v] {
			return 0, faults.Configuration("no rate for %d", v)
		}
		if s.invalid[v] {
			return 0, faults.Validation("bad record %d", v)
		}
		return v * 10, nil
	})
}

func (s *intStep) Persist(_ context.Context, _ txmanager.Session, _ batch.Partition, rows []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.transient > 0 {
		s.transient--
		return 0, &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	}
	s.persisted = append(s.persisted, rows...)
	return int64(len(rows)), nil
}

func (s *intStep) snapshot() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.persisted...)
}

// publishingStep 在 intStep 之上增加提交后的下游副作用。
type publishingStep struct {
	*intStep
}

func (s publishingStep) Publish(_ context.Context, _ batch.Partition, rows []int64) error {
	return s.publishFn(rows)
}

func testOptions() batch.Options {
	opts := batch.DefaultOptions()
	opts.ChunkSize = 3
	opts.Faults = batch.FaultPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, SkipLimit: 2}
	return opts
}

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

var targetDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
