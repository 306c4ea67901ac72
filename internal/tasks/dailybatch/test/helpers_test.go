package dailybatch_test

import (
	"context"
	"io"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

func discard() log.Logger { return log.NewStdLogger(io.Discard) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64) *int64 { return &v }

// failingStore 在 MemoryStore 之上模拟部分操作不可用。
type failingStore struct {
	cache.Store
}

func (failingStore) HSet(context.Context, string, map[string]string, time.Duration) error {
	return cache.ErrUnavailable
}

func (failingStore) SMembers(context.Context, string) ([]string, error) {
	return nil, cache.ErrUnavailable
}

type rangeCall struct {
	after int64
	max   int64
	limit int
}

// stubAggregates 按调用顺序返回预置页，并记录每次的游标参数。
type stubAggregates struct {
	pages [][]po.ViewAggregate
	calls []rangeCall
}

func (s *stubAggregates) ListViewAggregatesAfter(_ context.Context, _ txmanager.Session, _ time.Time, after, maxID int64, limit int) ([]po.ViewAggregate, error) {
	s.calls = append(s.calls, rangeCall{after: after, max: maxID, limit: limit})
	if len(s.pages) == 0 {
		return nil, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

type stubDaily struct {
	rows  []po.DailyStatisticsRow
	calls []rangeCall
}

func (s *stubDaily) ListDailyAfter(_ context.Context, _ txmanager.Session, _ time.Time, after, maxID int64, limit int) ([]po.DailyStatisticsRow, error) {
	s.calls = append(s.calls, rangeCall{after: after, max: maxID, limit: limit})
	var out []po.DailyStatisticsRow
	for _, row := range s.rows {
		if row.ID > after && row.ID <= maxID && len(out) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

type stubWatched struct {
	rng   po.IDRange
	err   error
	calls int
}

func (s *stubWatched) Range(context.Context, txmanager.Session, time.Time) (po.IDRange, error) {
	s.calls++
	return s.rng, s.err
}
