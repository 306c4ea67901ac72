package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/bionicotaku/lingo-services-settlement/internal/services/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestRollupAggregator_OneDailyRowPerContent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	contents := mocks.NewMockContentsRepository(ctrl)
	contents.EXPECT().ListTotalViews(gomock.Any(), gomock.Any(), []int64{10, 11, 12}).
		Return(map[int64]int64{10: 500, 12: 7}, nil)
	agg := services.NewRollupAggregator(contents, discard())
	require.Equal(t, services.StrategyRollup, agg.Strategy())

	date := day(2025, time.March, 14)
	out, err := agg.Aggregate(context.Background(), nil, date, []po.ViewAggregate{
		{ContentID: 10, TotalViews: 3, TotalWatchTime: 600, DistinctViewers: 3},
		{ContentID: 11, TotalViews: 1, TotalWatchTime: 10, DistinctViewers: 1},
		{ContentID: 12, TotalViews: -1, TotalWatchTime: 10, DistinctViewers: 1},
	})
	require.NoError(t, err)
	require.Equal(t, []po.ContentStatistics{{
		ContentID:        10,
		StatisticsDate:   date,
		Period:           po.PeriodDaily,
		ViewCount:        3,
		WatchTime:        600,
		AccumulatedViews: 500,
	}}, out.Rows)
	require.Len(t, out.Rejects, 2)
	require.Equal(t, int64(11), out.Rejects[0].Key)
	require.Equal(t, int64(12), out.Rejects[1].Key)
}

func TestRollupAggregator_RepositoryErrorFailsChunk(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	contents := mocks.NewMockContentsRepository(ctrl)
	contents.EXPECT().ListTotalViews(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("conn reset"))
	agg := services.NewRollupAggregator(contents, discard())

	_, err := agg.Aggregate(context.Background(), nil, day(2025, time.March, 14), []po.ViewAggregate{{ContentID: 1}})
	require.Error(t, err)
}

func TestFanoutAggregator_EmitsFourPeriodsAndCombines(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	date := day(2025, time.March, 14)
	dailyKey := po.StatisticsKey{ContentID: 10, StatisticsDate: date, Period: po.PeriodDaily}
	weeklyKey := po.StatisticsKey{ContentID: 10, StatisticsDate: day(2025, time.March, 10), Period: po.PeriodWeekly}

	stats := mocks.NewMockStatisticsRepository(ctrl)
	stats.EXPECT().ListAccumulated(gomock.Any(), gomock.Any(), gomock.Len(4)).
		Return(map[po.StatisticsKey]int64{dailyKey: 5, weeklyKey: 20}, nil)
	agg := services.NewFanoutAggregator(stats, discard())
	require.Equal(t, services.StrategyFanout, agg.Strategy())

	events := []*po.WatchEvent{
		{ID: 1, ContentID: 10, MemberID: 1, WatchedDate: date, LastPlayedPosition: 100, TotalWatchedSeconds: 100, Status: po.WatchCompleted},
		{ID: 2, ContentID: 10, MemberID: 2, WatchedDate: date, LastPlayedPosition: 200, TotalWatchedSeconds: 200, Status: po.WatchCompleted},
		{ID: 3, ContentID: 10, MemberID: 3, WatchedDate: date, LastPlayedPosition: 300, TotalWatchedSeconds: 300, Status: po.WatchCompleted},
		{ID: 4, ContentID: 10, MemberID: 4, WatchedDate: date, LastPlayedPosition: 40, TotalWatchedSeconds: 40, Status: po.WatchPaused},
		{ID: 5, ContentID: 10, MemberID: 5, WatchedDate: date, TotalWatchedSeconds: -1, Status: po.WatchCompleted},
	}
	out, err := agg.Aggregate(context.Background(), nil, date, events)
	require.NoError(t, err)
	require.Len(t, out.Rejects, 1)
	require.Equal(t, int64(5), out.Rejects[0].Key)

	require.Len(t, out.Rows, 4)
	byPeriod := make(map[po.PeriodType]po.ContentStatistics)
	for _, row := range out.Rows {
		byPeriod[row.Period] = row
		require.Equal(t, int64(3), row.ViewCount)
		require.Equal(t, int64(640), row.WatchTime)
	}
	require.Equal(t, int64(8), byPeriod[po.PeriodDaily].AccumulatedViews)
	require.Equal(t, int64(23), byPeriod[po.PeriodWeekly].AccumulatedViews)
	require.Equal(t, int64(3), byPeriod[po.PeriodMonthly].AccumulatedViews)
	require.Equal(t, day(2025, time.March, 1), byPeriod[po.PeriodMonthly].StatisticsDate)
	require.Equal(t, day(2025, time.January, 1), byPeriod[po.PeriodYearly].StatisticsDate)
}

func TestFanoutAggregator_AllInvalid(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stats := mocks.NewMockStatisticsRepository(ctrl)
	agg := services.NewFanoutAggregator(stats, discard())

	out, err := agg.Aggregate(context.Background(), nil, day(2025, time.March, 14), []*po.WatchEvent{
		{ID: 9, ContentID: 0, Status: po.WatchCompleted},
		{ID: 10, ContentID: 3, WatchedDate: day(2025, time.March, 14), Status: po.WatchStatus("REWOUND")},
	})
	require.NoError(t, err)
	require.Empty(t, out.Rows)
	require.Len(t, out.Rejects, 2)
	for _, rej := range out.Rejects {
		require.Equal(t, faults.ReasonValidation, faults.Reason(rej.Err))
	}
}
