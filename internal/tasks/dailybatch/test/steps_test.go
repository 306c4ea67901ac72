package dailybatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/dailybatch"
	"github.com/stretchr/testify/require"
)

var snapshotPolicy = cache.Policy{SnapshotTTL: time.Hour}

func TestRollupStepPublishesDailySnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewMemoryStore()
	step := dailybatch.NewRollupStep(&stubAggregates{}, nil, nil, store, snapshotPolicy, batch.ReaderConfig{}, discard())
	date := day(2025, 3, 14)
	p := batch.Partition{Start: 10, End: 20, TargetDate: date}

	err := step.Publish(ctx, p, []po.ContentStatistics{
		{ContentID: 10, StatisticsDate: date, Period: po.PeriodDaily, ViewCount: 3},
		{ContentID: 10, StatisticsDate: date, Period: po.PeriodWeekly, ViewCount: 9},
		{ContentID: 11, StatisticsDate: date, Period: po.PeriodDaily, ViewCount: 0},
	})
	require.NoError(t, err)

	snapshot, err := store.HGetAll(ctx, cache.ContentStatisticsKey(date))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"10": "3", "11": "0"}, snapshot)
}

func TestRollupStepPublishFailureIsNoRollback(t *testing.T) {
	t.Parallel()

	step := dailybatch.NewRollupStep(&stubAggregates{}, nil, nil, failingStore{cache.NewMemoryStore()}, snapshotPolicy, batch.ReaderConfig{}, discard())
	err := step.Publish(context.Background(), batch.Partition{TargetDate: day(2025, 3, 14)}, []po.ContentStatistics{
		{ContentID: 10, Period: po.PeriodDaily, ViewCount: 3},
	})
	require.Error(t, err)
	require.Equal(t, faults.ClassNoRollback, faults.Classify(err))
	require.ErrorIs(t, err, cache.ErrUnavailable)
}

func TestRollupStepReadsWithinPartition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := &stubAggregates{pages: [][]po.ViewAggregate{
		{{ContentID: 10, TotalViews: 1}, {ContentID: 15, TotalViews: 2}},
	}}
	reader := batch.ReaderConfig{FetchSize: 100, QueueCapacity: 4, PushTimeout: time.Second}
	step := dailybatch.NewRollupStep(source, nil, nil, cache.NewMemoryStore(), snapshotPolicy, reader, discard())
	p := batch.Partition{Start: 10, End: 20, TargetDate: day(2025, 3, 14)}

	src := step.Open(ctx, p, nil)
	items, err := src.Next(ctx, 10)
	require.NoError(t, err)
	src.Close()

	require.Len(t, items, 2)
	require.Equal(t, int64(15), step.Key(items[1]))
	require.NotEmpty(t, source.calls)
	require.Equal(t, rangeCall{after: 9, max: 20, limit: 11}, source.calls[0])
}

func TestSettlementStepResumesFromCheckpoint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := &stubDaily{rows: []po.DailyStatisticsRow{{ID: 5}, {ID: 6}, {ID: 7}, {ID: 8}}}
	step := dailybatch.NewSettlementStep(source, nil, nil)
	p := batch.Partition{Start: 5, End: 7, TargetDate: day(2025, 3, 14)}

	fresh := step.Open(ctx, p, nil)
	rows, err := fresh.Next(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []po.DailyStatisticsRow{{ID: 5}, {ID: 6}, {ID: 7}}, rows)
	require.Equal(t, int64(4), source.calls[0].after)

	resumed := step.Open(ctx, p, int64Ptr(6))
	rows, err = resumed.Next(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []po.DailyStatisticsRow{{ID: 7}}, rows)
}

func TestStatisticsRangeUnionsCacheSetAndDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	date := day(2025, 3, 14)
	store := cache.NewMemoryStore()
	for _, m := range []string{"42", "7", "19", "junk"} {
		_, err := store.SAdd(ctx, cache.DailyViewedContentKey(date), m, 0)
		require.NoError(t, err)
	}

	t.Run("cache set is a subset", func(t *testing.T) {
		watched := &stubWatched{rng: po.IDRange{MinID: 7, MaxID: 99, Count: 50}}
		rng, err := dailybatch.NewStatisticsRange(store, watched, discard()).ResolveRange(ctx, date)
		require.NoError(t, err)
		require.Equal(t, po.IDRange{MinID: 7, MaxID: 99, Count: 50}, rng)
	})

	t.Run("database lags the cache", func(t *testing.T) {
		watched := &stubWatched{rng: po.IDRange{MinID: 19, MaxID: 19, Count: 1}}
		rng, err := dailybatch.NewStatisticsRange(store, watched, discard()).ResolveRange(ctx, date)
		require.NoError(t, err)
		require.Equal(t, po.IDRange{MinID: 7, MaxID: 42, Count: 3}, rng)
	})

	t.Run("database unavailable", func(t *testing.T) {
		boom := errors.New("relation does not exist")
		watched := &stubWatched{err: boom}
		_, err := dailybatch.NewStatisticsRange(store, watched, discard()).ResolveRange(ctx, date)
		require.ErrorIs(t, err, boom)
	})
}

func TestStatisticsRangeFallsBackToDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	date := day(2025, 3, 14)
	want := po.IDRange{MinID: 1, MaxID: 99, Count: 50}

	t.Run("empty set", func(t *testing.T) {
		watched := &stubWatched{rng: want}
		rng, err := dailybatch.NewStatisticsRange(cache.NewMemoryStore(), watched, discard()).ResolveRange(ctx, date)
		require.NoError(t, err)
		require.Equal(t, want, rng)
		require.Equal(t, 1, watched.calls)
	})

	t.Run("cache unavailable", func(t *testing.T) {
		watched := &stubWatched{rng: want}
		store := failingStore{cache.NewMemoryStore()}
		rng, err := dailybatch.NewStatisticsRange(store, watched, discard()).ResolveRange(ctx, date)
		require.NoError(t, err)
		require.Equal(t, want, rng)
		require.Equal(t, 1, watched.calls)
	})
}
