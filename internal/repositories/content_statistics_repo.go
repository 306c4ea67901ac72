package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatisticsNotFound 表示统计行不存在。
var ErrStatisticsNotFound = errors.New("content statistics not found")

// ContentStatisticsRepository 访问 settlement.content_statistics。
//
// 写入按 (content_id, statistics_date, period) 合并：view_count / watch_time 累加，
// accumulated_views 取较大值。同一批数据重放不会产生重复行。
type ContentStatisticsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewContentStatisticsRepository 构造仓储实例。
func NewContentStatisticsRepository(db *pgxpool.Pool, logger log.Logger) *ContentStatisticsRepository {
	return &ContentStatisticsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

func (r *ContentStatisticsRepository) q(sess txmanager.Session) *batchdb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}

// Merge 逐条合并统计行。
func (r *ContentStatisticsRepository) Merge(ctx context.Context, sess txmanager.Session, rows []po.ContentStatistics) error {
	queries := r.q(sess)
	for _, row := range rows {
		if err := queries.UpsertContentStatistics(ctx, mappers.BuildUpsertContentStatisticsParams(row)); err != nil {
			r.log.WithContext(ctx).Errorf("merge content statistics failed: content=%d date=%s period=%s err=%v",
				row.ContentID, row.StatisticsDate.Format(time.DateOnly), row.Period, err)
			return fmt.Errorf("merge content statistics: %w", err)
		}
	}
	return nil
}

// Get 返回单条统计行。
func (r *ContentStatisticsRepository) Get(ctx context.Context, sess txmanager.Session, key po.StatisticsKey) (*po.ContentStatistics, error) {
	row, err := r.q(sess).GetContentStatistics(ctx, batchdb.GetContentStatisticsParams{
		ContentID:      key.ContentID,
		StatisticsDate: mappers.ToPgDate(key.StatisticsDate),
		Period:         string(key.Period),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatisticsNotFound
		}
		return nil, fmt.Errorf("get content statistics: %w", err)
	}
	return mappers.ContentStatisticsFromRow(row)
}

// ListAccumulated 批量返回已存在统计行的 accumulated_views。
func (r *ContentStatisticsRepository) ListAccumulated(ctx context.Context, sess txmanager.Session, keys []po.StatisticsKey) (map[po.StatisticsKey]int64, error) {
	out := make(map[po.StatisticsKey]int64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	params := batchdb.ListAccumulatedViewsParams{
		ContentIds:      make([]int64, 0, len(keys)),
		StatisticsDates: make([]pgtype.Date, 0, len(keys)),
		Periods:         make([]string, 0, len(keys)),
	}
	for _, k := range keys {
		params.ContentIds = append(params.ContentIds, k.ContentID)
		params.StatisticsDates = append(params.StatisticsDates, mappers.ToPgDate(k.StatisticsDate))
		params.Periods = append(params.Periods, string(k.Period))
	}
	rows, err := r.q(sess).ListAccumulatedViews(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list accumulated views: %w", err)
	}
	for _, row := range rows {
		key := po.StatisticsKey{
			ContentID:      row.ContentID,
			StatisticsDate: mappers.FromPgDate(row.StatisticsDate),
			Period:         po.PeriodType(row.Period),
		}
		out[key] = row.AccumulatedViews
	}
	return out, nil
}

// DailyRange 返回当日 DAILY 统计行的主键 ID 域。
func (r *ContentStatisticsRepository) DailyRange(ctx context.Context, sess txmanager.Session, date time.Time) (po.IDRange, error) {
	row, err := r.q(sess).GetDailyStatisticsRange(ctx, mappers.ToPgDate(date))
	if err != nil {
		return po.IDRange{}, fmt.Errorf("daily statistics range: %w", err)
	}
	return po.IDRange{MinID: row.MinID, MaxID: row.MaxID, Count: row.Total}, nil
}

// ListDailyAfter 以主键为游标读取当日 DAILY 统计行，id ∈ (afterID, maxID]。
func (r *ContentStatisticsRepository) ListDailyAfter(ctx context.Context, sess txmanager.Session, date time.Time, afterID, maxID int64, limit int) ([]po.DailyStatisticsRow, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q(sess).ListDailyStatisticsAfter(ctx, batchdb.ListDailyStatisticsAfterParams{
		StatisticsDate: mappers.ToPgDate(date),
		AfterID:        afterID,
		MaxID:          maxID,
		RowLimit:       int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list daily statistics: %w", err)
	}
	out := make([]po.DailyStatisticsRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.DailyStatisticsFromRow(row))
	}
	return out, nil
}
