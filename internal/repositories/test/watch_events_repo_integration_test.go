package repositories_test

import (
	"context"
	"math"
	"testing"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/stretchr/testify/require"
)

func TestWatchEventsRepositoryIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := setupPool(ctx, t)
	events := repositories.NewWatchEventsRepository(pool, discardLogger())
	watched := repositories.NewDailyWatchedContentRepository(pool, discardLogger())

	date := day(2025, 3, 14)
	seed := []po.WatchEvent{
		{MemberID: 1, ContentID: 10, WatchedDate: date, TotalWatchedSeconds: 30, Status: po.WatchCompleted},
		{MemberID: 2, ContentID: 10, WatchedDate: date, TotalWatchedSeconds: 20, Status: po.WatchCompleted},
		{MemberID: 2, ContentID: 10, WatchedDate: date, TotalWatchedSeconds: 5, Status: po.WatchPaused},
		{MemberID: 3, ContentID: 20, WatchedDate: date, TotalWatchedSeconds: 40, Status: po.WatchCompleted},
		{MemberID: 3, ContentID: 30, WatchedDate: day(2025, 3, 15), TotalWatchedSeconds: 40, Status: po.WatchCompleted},
	}
	var ids []int64
	for _, ev := range seed {
		id, err := events.Insert(ctx, nil, ev)
		require.NoError(t, err)
		ids = append(ids, id)
		_, err = watched.Record(ctx, nil, ev.ContentID, ev.WatchedDate)
		require.NoError(t, err)
	}

	aggs, err := events.ListViewAggregatesAfter(ctx, nil, date, 0, math.MaxInt64, 10)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	require.Equal(t, po.ViewAggregate{ContentID: 10, TotalViews: 2, TotalWatchTime: 55, DistinctViewers: 2}, aggs[0])
	require.Equal(t, int64(20), aggs[1].ContentID)

	next, err := events.ListViewAggregatesAfter(ctx, nil, date, 10, math.MaxInt64, 10)
	require.NoError(t, err)
	require.Len(t, next, 1)
	require.Equal(t, int64(20), next[0].ContentID)

	page, err := events.ListEventsAfter(ctx, nil, date, 10, 20, ids[0], 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[1], page[0].ID)
	require.Equal(t, ids[2], page[1].ID)
	require.Equal(t, po.WatchPaused, page[1].Status)

	rng, err := watched.Range(ctx, nil, date)
	require.NoError(t, err)
	require.Equal(t, po.IDRange{MinID: 10, MaxID: 20, Count: 2}, rng)

	created, err := watched.Record(ctx, nil, 10, date)
	require.NoError(t, err)
	require.False(t, created)

	empty, err := watched.Range(ctx, nil, day(2024, 1, 1))
	require.NoError(t, err)
	require.Zero(t, empty.Count)
}
