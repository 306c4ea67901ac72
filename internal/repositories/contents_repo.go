package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrContentNotFound 表示内容不存在。
var ErrContentNotFound = errors.New("content not found")

// ContentsRepository 访问 settlement.contents，包括累计播放计数器。
type ContentsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewContentsRepository 构造仓储实例。
func NewContentsRepository(db *pgxpool.Pool, logger log.Logger) *ContentsRepository {
	return &ContentsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

// Upsert 写入内容元数据，不覆盖 total_views。
func (r *ContentsRepository) Upsert(ctx context.Context, sess txmanager.Session, content po.Content) error {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	if err := queries.UpsertContent(ctx, batchdb.UpsertContentParams{
		ID:              content.ID,
		CreatorID:       content.CreatorID,
		Title:           content.Title,
		DurationSeconds: mappers.ToPgInt8(content.DurationSeconds),
		TotalViews:      content.TotalViews,
	}); err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}

// Get 返回内容。
func (r *ContentsRepository) Get(ctx context.Context, sess txmanager.Session, id int64) (*po.Content, error) {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	row, err := queries.GetContent(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	return mappers.ContentFromRow(row), nil
}

// ListTotalViews 批量返回累计播放数；不存在的内容不出现在结果中。
func (r *ContentsRepository) ListTotalViews(ctx context.Context, sess txmanager.Session, ids []int64) (map[int64]int64, error) {
	if len(ids) == 0 {
		return map[int64]int64{}, nil
	}
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	rows, err := queries.ListContentTotalViews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list content total views: %w", err)
	}
	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.TotalViews
	}
	return out, nil
}

// AddTotalViews 原子累加累计播放数（total_views = total_views + delta）。
func (r *ContentsRepository) AddTotalViews(ctx context.Context, sess txmanager.Session, id, delta int64) error {
	queries := r.queries
	if sess != nil {
		queries = queries.WithTx(sess.Tx())
	}
	n, err := queries.AddContentTotalViews(ctx, batchdb.AddContentTotalViewsParams{Delta: delta, ID: id})
	if err != nil {
		r.log.WithContext(ctx).Errorf("add content total views failed: content=%d delta=%d err=%v", id, delta, err)
		return fmt.Errorf("add content total views: %w", err)
	}
	if n == 0 {
		return ErrContentNotFound
	}
	return nil
}
