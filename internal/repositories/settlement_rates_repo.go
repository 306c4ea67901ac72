package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettlementRatesRepository 读取费率档位，按 min_views 升序返回。
type SettlementRatesRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewSettlementRatesRepository 构造仓储实例。
func NewSettlementRatesRepository(db *pgxpool.Pool, logger log.Logger) *SettlementRatesRepository {
	return &SettlementRatesRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

// ListByType 返回某一结算类型的全部费率（不做有效期过滤）。
func (r *SettlementRatesRepository) ListByType(ctx context.Context, typ po.SettlementType) ([]po.SettlementRate, error) {
	rows, err := r.queries.ListSettlementRatesByType(ctx, string(typ))
	if err != nil {
		return nil, fmt.Errorf("list settlement rates: %w", err)
	}
	out := make([]po.SettlementRate, 0, len(rows))
	for _, row := range rows {
		rate, err := mappers.SettlementRateFromRow(row)
		if err != nil {
			r.log.WithContext(ctx).Errorf("decode settlement rate failed: id=%d err=%v", row.ID, err)
			return nil, err
		}
		out = append(out, *rate)
	}
	return out, nil
}

// Insert 写入一条费率。
func (r *SettlementRatesRepository) Insert(ctx context.Context, sess txmanager.Session, rate po.SettlementRate) (int64, error) {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	id, err := queries.InsertSettlementRate(ctx, mappers.BuildInsertSettlementRateParams(rate))
	if err != nil {
		return 0, fmt.Errorf("insert settlement rate: %w", err)
	}
	return id, nil
}
