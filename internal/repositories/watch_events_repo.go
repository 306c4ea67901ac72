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

// WatchEventsRepository 读取 settlement.watch_events。
type WatchEventsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewWatchEventsRepository 构造仓储实例。
func NewWatchEventsRepository(db *pgxpool.Pool, logger log.Logger) *WatchEventsRepository {
	return &WatchEventsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

func (r *WatchEventsRepository) q(sess txmanager.Session) *batchdb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}

// Insert 写入一条观看记录，返回自增 ID。批处理链路只读，写入供导入与测试使用。
func (r *WatchEventsRepository) Insert(ctx context.Context, sess txmanager.Session, ev po.WatchEvent) (int64, error) {
	id, err := r.q(sess).InsertWatchEvent(ctx, batchdb.InsertWatchEventParams{
		MemberID:            ev.MemberID,
		ContentID:           ev.ContentID,
		WatchedDate:         mappers.ToPgDate(ev.WatchedDate),
		LastPlayedPosition:  ev.LastPlayedPosition,
		TotalWatchedSeconds: ev.TotalWatchedSeconds,
		Status:              string(ev.Status),
	})
	if err != nil {
		return 0, fmt.Errorf("insert watch event: %w", err)
	}
	return id, nil
}

// ListViewAggregatesAfter 以内容 ID 为键集游标，返回 (afterContentID, maxContentID] 内最多 limit 个内容的当日预聚合数据。
func (r *WatchEventsRepository) ListViewAggregatesAfter(ctx context.Context, sess txmanager.Session, date time.Time, afterContentID, maxContentID int64, limit int) ([]po.ViewAggregate, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q(sess).ListViewAggregatesAfter(ctx, batchdb.ListViewAggregatesAfterParams{
		WatchedDate:    mappers.ToPgDate(date),
		AfterContentID: afterContentID,
		MaxContentID:   maxContentID,
		RowLimit:       int32(limit),
	})
	if err != nil {
		r.log.WithContext(ctx).Errorf("list view aggregates failed: date=%s after=%d err=%v", date.Format(time.DateOnly), afterContentID, err)
		return nil, fmt.Errorf("list view aggregates: %w", err)
	}
	out := make([]po.ViewAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.ViewAggregateFromRow(row))
	}
	return out, nil
}

// ListEventsAfter 以事件 ID 为键集游标，返回内容区间 [minContentID, maxContentID] 内的当日事件。
func (r *WatchEventsRepository) ListEventsAfter(ctx context.Context, sess txmanager.Session, date time.Time, minContentID, maxContentID, afterID int64, limit int) ([]*po.WatchEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q(sess).ListWatchEventsAfter(ctx, batchdb.ListWatchEventsAfterParams{
		WatchedDate:  mappers.ToPgDate(date),
		MinContentID: minContentID,
		MaxContentID: maxContentID,
		AfterID:      afterID,
		RowLimit:     int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list watch events: %w", err)
	}
	out := make([]*po.WatchEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.WatchEventFromRow(row))
	}
	return out, nil
}
