package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// 统计与结算策略名，对应配置 batch.statistics.strategy / batch.settlement.strategy。
const (
	StrategyRollup = "rollup"
	StrategyFanout = "fanout"
	StrategyTiered = "tiered"
	StrategyFlat   = "flat"
)

// RollupAggregator 按 (内容, 日) 产出一条 DAILY 统计，数据来自数据源预聚合的观看元组；
// accumulatedViews 取自内容表维护的累计播放数。
type RollupAggregator struct {
	contents ContentsRepository
	log      *log.Helper
}

// NewRollupAggregator 构造 RollupAggregator。
func NewRollupAggregator(contents ContentsRepository, logger log.Logger) *RollupAggregator {
	return &RollupAggregator{contents: contents, log: log.NewHelper(logger)}
}

// Strategy 返回策略名。
func (a *RollupAggregator) Strategy() string { return StrategyRollup }

// Aggregate 实现 StatisticsAggregator。
func (a *RollupAggregator) Aggregate(ctx context.Context, sess txmanager.Session, date time.Time, items []po.ViewAggregate) (batch.Transformed[po.ContentStatistics], error) {
	if len(items) == 0 {
		return batch.Transformed[po.ContentStatistics]{}, nil
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ContentID)
	}
	lifetime, err := a.contents.ListTotalViews(ctx, sess, ids)
	if err != nil {
		return batch.Transformed[po.ContentStatistics]{}, fmt.Errorf("load lifetime views: %w", err)
	}

	day := DateOnly(date)
	return batch.TransformEach(items, func(v po.ViewAggregate) int64 { return v.ContentID }, func(agg po.ViewAggregate) (po.ContentStatistics, error) {
		if agg.TotalViews < 0 || agg.TotalWatchTime < 0 {
			return po.ContentStatistics{}, faults.Validation("content %d: negative aggregate views=%d watch_time=%d",
				agg.ContentID, agg.TotalViews, agg.TotalWatchTime)
		}
		total, ok := lifetime[agg.ContentID]
		if !ok {
			return po.ContentStatistics{}, faults.Validation("content %d not found", agg.ContentID)
		}
		return po.ContentStatistics{
			ContentID:        agg.ContentID,
			StatisticsDate:   day,
			Period:           po.PeriodDaily,
			ViewCount:        agg.TotalViews,
			WatchTime:        agg.TotalWatchTime,
			AccumulatedViews: total,
		}, nil
	})
}

// FanoutAggregator 把每条观看事件展开为 DAILY/WEEKLY/MONTHLY/YEARLY 四行，
// 同一块内相同键的行先合并再落库。accumulatedViews 为已存储值加上本块完成的观看数。
type FanoutAggregator struct {
	stats StatisticsRepository
	log   *log.Helper
}

// NewFanoutAggregator 构造 FanoutAggregator。
func NewFanoutAggregator(stats StatisticsRepository, logger log.Logger) *FanoutAggregator {
	return &FanoutAggregator{stats: stats, log: log.NewHelper(logger)}
}

// Strategy 返回策略名。
func (a *FanoutAggregator) Strategy() string { return StrategyFanout }

// Aggregate 实现 StatisticsAggregator。
func (a *FanoutAggregator) Aggregate(ctx context.Context, sess txmanager.Session, _ time.Time, events []*po.WatchEvent) (batch.Transformed[po.ContentStatistics], error) {
	valid, err := batch.TransformEach(events, func(ev *po.WatchEvent) int64 {
		if ev == nil {
			return 0
		}
		return ev.ID
	}, validateWatchEvent)
	if err != nil {
		return batch.Transformed[po.ContentStatistics]{}, err
	}

	var (
		order     []po.StatisticsKey
		combined  = make(map[po.StatisticsKey]*po.ContentStatistics)
		completed = make(map[po.StatisticsKey]int64)
	)
	for _, ev := range valid.Rows {
		views := int64(0)
		if ev.Status == po.WatchCompleted {
			views = 1
		}
		for _, period := range po.AllPeriods() {
			key := po.StatisticsKey{ContentID: ev.ContentID, StatisticsDate: PeriodStart(ev.WatchedDate, period), Period: period}
			row, ok := combined[key]
			if !ok {
				row = &po.ContentStatistics{ContentID: key.ContentID, StatisticsDate: key.StatisticsDate, Period: period}
				combined[key] = row
				order = append(order, key)
			}
			row.ViewCount += views
			row.WatchTime += ev.TotalWatchedSeconds
			completed[key] += views
		}
	}
	if len(order) == 0 {
		return batch.Transformed[po.ContentStatistics]{Rejects: valid.Rejects}, nil
	}

	prior, err := a.stats.ListAccumulated(ctx, sess, order)
	if err != nil {
		return batch.Transformed[po.ContentStatistics]{}, fmt.Errorf("load accumulated views: %w", err)
	}
	out := batch.Transformed[po.ContentStatistics]{Rows: make([]po.ContentStatistics, 0, len(order)), Rejects: valid.Rejects}
	for _, key := range order {
		row := combined[key]
		row.AccumulatedViews = prior[key] + completed[key]
		out.Rows = append(out.Rows, *row)
	}
	return out, nil
}

func validateWatchEvent(ev *po.WatchEvent) (*po.WatchEvent, error) {
	if ev == nil {
		return nil, faults.Validation("nil watch event")
	}
	if ev.ContentID <= 0 {
		return nil, faults.Validation("watch event %d: invalid content id %d", ev.ID, ev.ContentID)
	}
	if _, err := po.ParseWatchStatus(string(ev.Status)); err != nil {
		return nil, faults.Validation("watch event %d: %v", ev.ID, err)
	}
	if ev.TotalWatchedSeconds < 0 || ev.LastPlayedPosition < 0 {
		return nil, faults.Validation("watch event %d: negative playback values", ev.ID)
	}
	if ev.WatchedDate.IsZero() {
		return nil, faults.Validation("watch event %d: missing watched date", ev.ID)
	}
	return ev, nil
}
