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
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSettlementNotFound 表示结算记录不存在。
var ErrSettlementNotFound = errors.New("settlement not found")

// SettlementsRepository 访问 settlement.settlements。写入按 (content_id, settlement_date) 覆盖。
type SettlementsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewSettlementsRepository 构造仓储实例。
func NewSettlementsRepository(db *pgxpool.Pool, logger log.Logger) *SettlementsRepository {
	return &SettlementsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

func (r *SettlementsRepository) q(sess txmanager.Session) *batchdb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}

// Upsert 批量写入结算结果。
func (r *SettlementsRepository) Upsert(ctx context.Context, sess txmanager.Session, rows []po.Settlement) error {
	queries := r.q(sess)
	for _, row := range rows {
		if err := queries.UpsertSettlement(ctx, mappers.BuildUpsertSettlementParams(row)); err != nil {
			r.log.WithContext(ctx).Errorf("upsert settlement failed: content=%d date=%s err=%v",
				row.ContentID, row.SettlementDate.Format(time.DateOnly), err)
			return fmt.Errorf("upsert settlement: %w", err)
		}
	}
	return nil
}

// Get 返回某内容某日的结算记录。
func (r *SettlementsRepository) Get(ctx context.Context, sess txmanager.Session, contentID int64, date time.Time) (*po.Settlement, error) {
	row, err := r.q(sess).GetSettlement(ctx, batchdb.GetSettlementParams{
		ContentID:      contentID,
		SettlementDate: mappers.ToPgDate(date),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettlementNotFound
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return mappers.SettlementFromRow(row)
}

// ListPreviousCumulative 返回每个内容在 date 之前最近一次结算的累计播放数。
// 未出现在结果中的内容视为 0。
func (r *SettlementsRepository) ListPreviousCumulative(ctx context.Context, sess txmanager.Session, contentIDs []int64, date time.Time) (map[int64]int64, error) {
	out := make(map[int64]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	rows, err := r.q(sess).ListPreviousCumulativeViews(ctx, batchdb.ListPreviousCumulativeViewsParams{
		ContentIds:     contentIDs,
		SettlementDate: mappers.ToPgDate(date),
	})
	if err != nil {
		return nil, fmt.Errorf("list previous cumulative views: %w", err)
	}
	for _, row := range rows {
		out[row.ContentID] = row.TotalViews
	}
	return out, nil
}
