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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCheckpointNotFound 表示 checkpoint 行不存在（尚未登记分区计划）。
var ErrCheckpointNotFound = errors.New("partition checkpoint not found")

// CheckpointKey 唯一标识一个分区 checkpoint。
type CheckpointKey struct {
	Phase      po.Phase
	TargetDate time.Time
	Ordinal    int
}

// CheckpointProgress 为一个块提交后的进度增量。
type CheckpointProgress struct {
	LastCommittedID *int64
	RowsRead        int64
	RowsWritten     int64
	RowsSkipped     int64
}

// PartitionCheckpointsRepository 维护 settlement.partition_checkpoints。
// Advance 与业务写入共用同一事务，保证游标与数据同进同退。
type PartitionCheckpointsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewPartitionCheckpointsRepository 构造仓储实例。
func NewPartitionCheckpointsRepository(db *pgxpool.Pool, logger log.Logger) *PartitionCheckpointsRepository {
	return &PartitionCheckpointsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

func (r *PartitionCheckpointsRepository) q(sess txmanager.Session) *batchdb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}

// List 返回某阶段某日的分区计划，按 ordinal 升序。
func (r *PartitionCheckpointsRepository) List(ctx context.Context, sess txmanager.Session, phase po.Phase, date time.Time) ([]*po.PartitionCheckpoint, error) {
	rows, err := r.q(sess).ListPartitionCheckpoints(ctx, batchdb.ListPartitionCheckpointsParams{
		Phase:      string(phase),
		TargetDate: mappers.ToPgDate(date),
	})
	if err != nil {
		return nil, fmt.Errorf("list partition checkpoints: %w", err)
	}
	out := make([]*po.PartitionCheckpoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.CheckpointFromRow(row))
	}
	return out, nil
}

// Insert 登记一份分区计划；已存在的 (phase, date, ordinal) 保持不变。
func (r *PartitionCheckpointsRepository) Insert(ctx context.Context, sess txmanager.Session, runToken uuid.UUID, plan []po.PartitionCheckpoint) error {
	queries := r.q(sess)
	for _, cp := range plan {
		if err := queries.InsertPartitionCheckpoint(ctx, batchdb.InsertPartitionCheckpointParams{
			Phase:      string(cp.Phase),
			TargetDate: mappers.ToPgDate(cp.TargetDate),
			Ordinal:    int32(cp.Ordinal),
			RangeStart: cp.RangeStart,
			RangeEnd:   cp.RangeEnd,
			RunToken:   runToken,
		}); err != nil {
			return fmt.Errorf("insert partition checkpoint %d: %w", cp.Ordinal, err)
		}
	}
	return nil
}

// Advance 在块事务内推进游标并累加计数。
func (r *PartitionCheckpointsRepository) Advance(ctx context.Context, sess txmanager.Session, key CheckpointKey, progress CheckpointProgress) error {
	n, err := r.q(sess).AdvancePartitionCheckpoint(ctx, batchdb.AdvancePartitionCheckpointParams{
		LastCommittedID: mappers.ToPgInt8(progress.LastCommittedID),
		RowsRead:        progress.RowsRead,
		RowsWritten:     progress.RowsWritten,
		RowsSkipped:     progress.RowsSkipped,
		Phase:           string(key.Phase),
		TargetDate:      mappers.ToPgDate(key.TargetDate),
		Ordinal:         int32(key.Ordinal),
	})
	if err != nil {
		return fmt.Errorf("advance partition checkpoint: %w", err)
	}
	if n == 0 {
		return ErrCheckpointNotFound
	}
	return nil
}

// Mark 更新分区状态；errClass/errMsg 为空时清空错误列。
func (r *PartitionCheckpointsRepository) Mark(ctx context.Context, sess txmanager.Session, key CheckpointKey, status po.RunStatus, runToken uuid.UUID, errClass, errMsg string) error {
	n, err := r.q(sess).MarkPartitionCheckpoint(ctx, batchdb.MarkPartitionCheckpointParams{
		Status:       string(status),
		RunToken:     runToken,
		ErrorClass:   mappers.ToPgText(nonEmpty(errClass)),
		ErrorMessage: mappers.ToPgText(nonEmpty(errMsg)),
		Phase:        string(key.Phase),
		TargetDate:   mappers.ToPgDate(key.TargetDate),
		Ordinal:      int32(key.Ordinal),
	})
	if err != nil {
		r.log.WithContext(ctx).Errorf("mark partition checkpoint failed: phase=%s ordinal=%d status=%s err=%v", key.Phase, key.Ordinal, status, err)
		return fmt.Errorf("mark partition checkpoint: %w", err)
	}
	if n == 0 {
		return ErrCheckpointNotFound
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
