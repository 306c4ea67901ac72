package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/mappers"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBatchRunNotFound 表示运行记录不存在。
var ErrBatchRunNotFound = errors.New("batch run not found")

// BatchRunsRepository 记录每次日批运行的阶段状态。
type BatchRunsRepository struct {
	db      *pgxpool.Pool
	queries *batchdb.Queries
	log     *log.Helper
}

// NewBatchRunsRepository 构造仓储实例。
func NewBatchRunsRepository(db *pgxpool.Pool, logger log.Logger) *BatchRunsRepository {
	return &BatchRunsRepository{
		db:      db,
		queries: batchdb.New(db),
		log:     log.NewHelper(logger),
	}
}

// Start 写入 RUNNING 状态的运行记录。
func (r *BatchRunsRepository) Start(ctx context.Context, runToken uuid.UUID, date time.Time) error {
	if err := r.queries.InsertBatchRun(ctx, batchdb.InsertBatchRunParams{
		RunToken:   runToken,
		TargetDate: mappers.ToPgDate(date),
	}); err != nil {
		return fmt.Errorf("insert batch run: %w", err)
	}
	return nil
}

// Finish 写入最终状态。
func (r *BatchRunsRepository) Finish(ctx context.Context, run po.BatchRun) error {
	if !run.Status.Terminal() {
		return fmt.Errorf("finish batch run %s: status %s is not terminal", run.RunToken, run.Status)
	}
	n, err := r.queries.FinishBatchRun(ctx, batchdb.FinishBatchRunParams{
		Status:           string(run.Status),
		StatisticsStatus: string(run.StatisticsStatus),
		SettlementStatus: string(run.SettlementStatus),
		ErrorClass:       mappers.ToPgText(run.ErrorClass),
		ErrorMessage:     mappers.ToPgText(run.ErrorMessage),
		RunToken:         run.RunToken,
	})
	if err != nil {
		r.log.WithContext(ctx).Errorf("finish batch run failed: run=%s err=%v", run.RunToken, err)
		return fmt.Errorf("finish batch run: %w", err)
	}
	if n == 0 {
		return ErrBatchRunNotFound
	}
	return nil
}

// Get 返回运行记录。
func (r *BatchRunsRepository) Get(ctx context.Context, runToken uuid.UUID) (*po.BatchRun, error) {
	row, err := r.queries.GetBatchRun(ctx, runToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBatchRunNotFound
		}
		return nil, fmt.Errorf("get batch run: %w", err)
	}
	return mappers.BatchRunFromRow(row), nil
}
