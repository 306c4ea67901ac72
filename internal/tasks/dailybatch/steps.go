package dailybatch

import (
	"context"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// aggregateReader 读取按内容预聚合的当日观看数据。
type aggregateReader interface {
	ListViewAggregatesAfter(ctx context.Context, sess txmanager.Session, date time.Time, afterContentID, maxContentID int64, limit int) ([]po.ViewAggregate, error)
}

// eventReader 读取内容区间内的当日观看事件。
type eventReader interface {
	ListEventsAfter(ctx context.Context, sess txmanager.Session, date time.Time, minContentID, maxContentID, afterID int64, limit int) ([]*po.WatchEvent, error)
}

// dailyStatisticsReader 读取当日 DAILY 统计行。
type dailyStatisticsReader interface {
	ListDailyAfter(ctx context.Context, sess txmanager.Session, date time.Time, afterID, maxID int64, limit int) ([]po.DailyStatisticsRow, error)
}

func startCursor(p batch.Partition, resume *int64) int64 {
	if resume != nil {
		return *resume
	}
	return p.Start - 1
}

// RollupStep 为统计阶段的 rollup 策略：每个内容一行 DAILY 统计，
// 数据经 BackpressureReader 读取，提交后把当日播放数写入缓存快照。
type RollupStep struct {
	source     aggregateReader
	aggregator services.StatisticsAggregator[po.ViewAggregate]
	stats      services.StatisticsRepository
	store      cache.Store
	policy     cache.Policy
	reader     batch.ReaderConfig
	logger     log.Logger
}

// NewRollupStep 构造 RollupStep。reader 只使用其中的拉取与队列参数。
func NewRollupStep(
	source aggregateReader,
	aggregator services.StatisticsAggregator[po.ViewAggregate],
	stats services.StatisticsRepository,
	store cache.Store,
	policy cache.Policy,
	reader batch.ReaderConfig,
	logger log.Logger,
) *RollupStep {
	return &RollupStep{
		source:     source,
		aggregator: aggregator,
		stats:      stats,
		store:      store,
		policy:     policy,
		reader:     reader,
		logger:     logger,
	}
}

// Open 实现 batch.Step。
func (s *RollupStep) Open(ctx context.Context, p batch.Partition, resume *int64) batch.Source[po.ViewAggregate] {
	cfg := s.reader
	cfg.Cursor = startCursor(p, resume)
	cfg.End = p.End
	date := p.TargetDate
	fetch := func(ctx context.Context, cursor int64, limit int) ([]po.ViewAggregate, error) {
		return s.source.ListViewAggregatesAfter(ctx, nil, date, cursor, p.End, limit)
	}
	return batch.NewBackpressureReader(ctx, fetch, s.Key, cfg, s.logger)
}

// Key 实现 batch.Step。
func (s *RollupStep) Key(item po.ViewAggregate) int64 { return item.ContentID }

// Transform 实现 batch.Step。
func (s *RollupStep) Transform(ctx context.Context, sess txmanager.Session, p batch.Partition, items []po.ViewAggregate) (batch.Transformed[po.ContentStatistics], error) {
	return s.aggregator.Aggregate(ctx, sess, p.TargetDate, items)
}

// Persist 实现 batch.Step。
func (s *RollupStep) Persist(ctx context.Context, sess txmanager.Session, _ batch.Partition, rows []po.ContentStatistics) (int64, error) {
	if err := s.stats.Merge(ctx, sess, rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// Publish 实现 batch.Publisher：写入 content-statistics:{date} 快照。
func (s *RollupStep) Publish(ctx context.Context, p batch.Partition, rows []po.ContentStatistics) error {
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Period != po.PeriodDaily {
			continue
		}
		values[strconv.FormatInt(row.ContentID, 10)] = strconv.FormatInt(row.ViewCount, 10)
	}
	if len(values) == 0 {
		return nil
	}
	if err := s.store.HSet(ctx, cache.ContentStatisticsKey(p.TargetDate), values, s.policy.SnapshotTTL); err != nil {
		return faults.Downstream("publish statistics snapshot", err)
	}
	return nil
}

// FanoutStep 为统计阶段的 fan-out 策略：逐条观看事件展开到四个周期，
// 以事件 ID 为游标同步分页读取。
type FanoutStep struct {
	source     eventReader
	aggregator services.StatisticsAggregator[*po.WatchEvent]
	stats      services.StatisticsRepository
}

// NewFanoutStep 构造 FanoutStep。
func NewFanoutStep(source eventReader, aggregator services.StatisticsAggregator[*po.WatchEvent], stats services.StatisticsRepository) *FanoutStep {
	return &FanoutStep{source: source, aggregator: aggregator, stats: stats}
}

// Open 实现 batch.Step。分区按内容 ID 切分，游标是事件 ID。
func (s *FanoutStep) Open(_ context.Context, p batch.Partition, resume *int64) batch.Source[*po.WatchEvent] {
	var cursor int64
	if resume != nil {
		cursor = *resume
	}
	date := p.TargetDate
	fetch := func(ctx context.Context, cursor int64, limit int) ([]*po.WatchEvent, error) {
		return s.source.ListEventsAfter(ctx, nil, date, p.Start, p.End, cursor, limit)
	}
	return batch.NewKeysetSource(fetch, s.Key, cursor)
}

// Key 实现 batch.Step。
func (s *FanoutStep) Key(item *po.WatchEvent) int64 { return item.ID }

// Transform 实现 batch.Step。
func (s *FanoutStep) Transform(ctx context.Context, sess txmanager.Session, p batch.Partition, items []*po.WatchEvent) (batch.Transformed[po.ContentStatistics], error) {
	return s.aggregator.Aggregate(ctx, sess, p.TargetDate, items)
}

// Persist 实现 batch.Step。
func (s *FanoutStep) Persist(ctx context.Context, sess txmanager.Session, _ batch.Partition, rows []po.ContentStatistics) (int64, error) {
	if err := s.stats.Merge(ctx, sess, rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// SettlementStep 为结算阶段：读取当日 DAILY 统计行并计算结算金额。
type SettlementStep struct {
	source      dailyStatisticsReader
	calculator  services.SettlementCalculator
	settlements services.SettlementsRepository
}

// NewSettlementStep 构造 SettlementStep。
func NewSettlementStep(source dailyStatisticsReader, calculator services.SettlementCalculator, settlements services.SettlementsRepository) *SettlementStep {
	return &SettlementStep{source: source, calculator: calculator, settlements: settlements}
}

// Open 实现 batch.Step。
func (s *SettlementStep) Open(_ context.Context, p batch.Partition, resume *int64) batch.Source[po.DailyStatisticsRow] {
	date := p.TargetDate
	fetch := func(ctx context.Context, cursor int64, limit int) ([]po.DailyStatisticsRow, error) {
		return s.source.ListDailyAfter(ctx, nil, date, cursor, p.End, limit)
	}
	return batch.NewKeysetSource(fetch, s.Key, startCursor(p, resume))
}

// Key 实现 batch.Step。
func (s *SettlementStep) Key(item po.DailyStatisticsRow) int64 { return item.ID }

// Transform 实现 batch.Step。
func (s *SettlementStep) Transform(ctx context.Context, sess txmanager.Session, p batch.Partition, items []po.DailyStatisticsRow) (batch.Transformed[po.Settlement], error) {
	return s.calculator.Calculate(ctx, sess, p.TargetDate, items)
}

// Persist 实现 batch.Step。结算行按 (content_id, settlement_date) 后写覆盖。
func (s *SettlementStep) Persist(ctx context.Context, sess txmanager.Session, _ batch.Partition, rows []po.Settlement) (int64, error) {
	if err := s.settlements.Upsert(ctx, sess, rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

var (
	_ batch.Step[po.ViewAggregate, po.ContentStatistics] = (*RollupStep)(nil)
	_ batch.Publisher[po.ContentStatistics]              = (*RollupStep)(nil)
	_ batch.Step[*po.WatchEvent, po.ContentStatistics]   = (*FanoutStep)(nil)
	_ batch.Step[po.DailyStatisticsRow, po.Settlement]   = (*SettlementStep)(nil)
)
