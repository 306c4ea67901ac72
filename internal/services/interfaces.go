package services

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/bionicotaku/lingo-utils/txmanager"
)

// ContentsRepository 抽象内容表读写。
type ContentsRepository interface {
	Get(ctx context.Context, sess txmanager.Session, id int64) (*po.Content, error)
	ListTotalViews(ctx context.Context, sess txmanager.Session, ids []int64) (map[int64]int64, error)
	AddTotalViews(ctx context.Context, sess txmanager.Session, id, delta int64) error
}

// StatisticsRepository 抽象统计表读写。
type StatisticsRepository interface {
	Merge(ctx context.Context, sess txmanager.Session, rows []po.ContentStatistics) error
	ListAccumulated(ctx context.Context, sess txmanager.Session, keys []po.StatisticsKey) (map[po.StatisticsKey]int64, error)
}

// SettlementRatesRepository 抽象费率读取。
type SettlementRatesRepository interface {
	ListByType(ctx context.Context, typ po.SettlementType) ([]po.SettlementRate, error)
}

// SettlementsRepository 抽象结算表读写。
type SettlementsRepository interface {
	Upsert(ctx context.Context, sess txmanager.Session, rows []po.Settlement) error
	ListPreviousCumulative(ctx context.Context, sess txmanager.Session, contentIDs []int64, date time.Time) (map[int64]int64, error)
}

// DailyWatchedContentRepository 抽象当日观看索引写入。
type DailyWatchedContentRepository interface {
	Record(ctx context.Context, sess txmanager.Session, contentID int64, date time.Time) (bool, error)
}

// StatisticsAggregator 把一个块的输入转换为待合并的统计行。
type StatisticsAggregator[In any] interface {
	Strategy() string
	Aggregate(ctx context.Context, sess txmanager.Session, date time.Time, items []In) (batch.Transformed[po.ContentStatistics], error)
}

// SettlementCalculator 把一个块的日统计行转换为结算记录。
type SettlementCalculator interface {
	Strategy() string
	Calculate(ctx context.Context, sess txmanager.Session, date time.Time, rows []po.DailyStatisticsRow) (batch.Transformed[po.Settlement], error)
}

// ViewCountServiceInterface 抽象观看计数入口。
type ViewCountServiceInterface interface {
	RecordView(ctx context.Context, input RecordViewInput) (ViewOutcome, error)
}

// ViewSyncServiceInterface 抽象分钟桶回刷。
type ViewSyncServiceInterface interface {
	SyncClosedBuckets(ctx context.Context, now time.Time) (SyncResult, error)
}

var (
	_ StatisticsAggregator[po.ViewAggregate] = (*RollupAggregator)(nil)
	_ StatisticsAggregator[*po.WatchEvent]   = (*FanoutAggregator)(nil)
	_ SettlementCalculator                   = (*TieredCalculator)(nil)
	_ SettlementCalculator                   = (*FlatCalculator)(nil)
	_ ViewCountServiceInterface              = (*ViewCountService)(nil)
	_ ViewSyncServiceInterface               = (*ViewSyncService)(nil)

	_ ContentsRepository            = (*repositories.ContentsRepository)(nil)
	_ StatisticsRepository          = (*repositories.ContentStatisticsRepository)(nil)
	_ SettlementRatesRepository     = (*repositories.SettlementRatesRepository)(nil)
	_ SettlementsRepository         = (*repositories.SettlementsRepository)(nil)
	_ DailyWatchedContentRepository = (*repositories.DailyWatchedContentRepository)(nil)
)
