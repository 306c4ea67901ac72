package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyWatchedContentRepository 维护 settlement.daily_watched_content（内容 × 日期 标记）。
type DailyWatchedContentRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewDailyWatchedContentRepository 构造仓储实例。
func NewDailyWatchedContentRepository(db *pgxpool.Pool, logger log.Logger) *DailyWatchedContentRepository {
	return &DailyWatchedContentRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

// Record 写入标记；已存在时不做任何修改，返回是否新建。
func (r *DailyWatchedContentRepository) Record(ctx context.Context, sess txmanager.Session, contentID int64, date time.Time) (bool, error) {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	n, err := queries.InsertDailyWatchedContent(ctx, batchdb.InsertDailyWatchedContentParams{
		ContentID:   contentID,
		WatchedDate: mappers.ToPgDate(date),
	})
	if err != nil {
		return false, fmt.Errorf("record daily watched content: %w", err)
	}
	return n > 0, nil
}

// Range 返回当日被观看内容 ID 的 MIN/MAX/COUNT。
func (r *DailyWatchedContentRepository) Range(ctx context.Context, sess txmanager.Session, date time.Time) (po.IDRange, error) {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	row, err := queries.GetDailyWatchedRange(ctx, mappers.ToPgDate(date))
	if err != nil {
		return po.IDRange{}, fmt.Errorf("daily watched range: %w", err)
	}
	return po.IDRange{MinID: row.MinID, MaxID: row.MaxID, Count: row.Total}, nil
}
