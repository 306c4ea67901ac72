package po

import (
	"time"

	"github.com/google/uuid"
)

// PartitionCheckpoint 对应 settlement.partition_checkpoints。
// 每个块提交时与业务写入在同一事务内更新。
type PartitionCheckpoint struct {
	Phase           Phase
	TargetDate      time.Time
	Ordinal         int
	RangeStart      int64
	RangeEnd        int64
	LastCommittedID *int64
	RowsRead        int64
	RowsWritten     int64
	RowsSkipped     int64
	Status          RunStatus
	RunToken        uuid.UUID
	ErrorClass      *string
	ErrorMessage    *string
	UpdatedAt       time.Time
}

// BatchRun 对应 settlement.batch_runs，一次日批的终态报告。
type BatchRun struct {
	RunToken         uuid.UUID
	TargetDate       time.Time
	Status           RunStatus
	StatisticsStatus RunStatus
	SettlementStatus RunStatus
	ErrorClass       *string
	ErrorMessage     *string
	StartedAt        time.Time
	FinishedAt       *time.Time
}
