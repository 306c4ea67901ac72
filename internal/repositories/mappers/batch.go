package mappers

import (
	"fmt"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories/batchdb"
)

// ContentFromRow 转换内容行。
func ContentFromRow(row batchdb.SettlementContent) *po.Content {
	return &po.Content{
		ID:              row.ID,
		CreatorID:       row.CreatorID,
		Title:           row.Title,
		DurationSeconds: int8Ptr(row.DurationSeconds),
		TotalViews:      row.TotalViews,
	}
}

// WatchEventFromRow 转换观看记录。状态按原值透传，合法性由聚合阶段逐条校验。
func WatchEventFromRow(row batchdb.SettlementWatchEvent) *po.WatchEvent {
	return &po.WatchEvent{
		ID:                  row.ID,
		MemberID:            row.MemberID,
		ContentID:           row.ContentID,
		WatchedDate:         FromPgDate(row.WatchedDate),
		LastPlayedPosition:  row.LastPlayedPosition,
		TotalWatchedSeconds: row.TotalWatchedSeconds,
		Status:              po.WatchStatus(row.Status),
		CreatedAt:           mustTimestamp(row.CreatedAt),
	}
}

// ViewAggregateFromRow 转换预聚合行。
func ViewAggregateFromRow(row batchdb.ListViewAggregatesAfterRow) po.ViewAggregate {
	return po.ViewAggregate{
		ContentID:       row.ContentID,
		TotalViews:      row.TotalViews,
		TotalWatchTime:  row.TotalWatchTime,
		DistinctViewers: row.DistinctViewers,
	}
}

// BuildUpsertContentStatisticsParams 构造统计 upsert 参数。
func BuildUpsertContentStatisticsParams(row po.ContentStatistics) batchdb.UpsertContentStatisticsParams {
	return batchdb.UpsertContentStatisticsParams{
		ContentID:        row.ContentID,
		StatisticsDate:   ToPgDate(row.StatisticsDate),
		Period:           string(row.Period),
		ViewCount:        row.ViewCount,
		WatchTime:        row.WatchTime,
		AccumulatedViews: row.AccumulatedViews,
	}
}

// ContentStatisticsFromRow 转换统计行。
func ContentStatisticsFromRow(row batchdb.SettlementContentStatistic) (*po.ContentStatistics, error) {
	period, err := po.ParsePeriodType(row.Period)
	if err != nil {
		return nil, err
	}
	return &po.ContentStatistics{
		ID:               row.ID,
		ContentID:        row.ContentID,
		StatisticsDate:   FromPgDate(row.StatisticsDate),
		Period:           period,
		ViewCount:        row.ViewCount,
		WatchTime:        row.WatchTime,
		AccumulatedViews: row.AccumulatedViews,
	}, nil
}

// DailyStatisticsFromRow 转换结算阶段读取的日统计行。
func DailyStatisticsFromRow(row batchdb.ListDailyStatisticsAfterRow) po.DailyStatisticsRow {
	return po.DailyStatisticsRow{
		ID:               row.ID,
		ContentID:        row.ContentID,
		StatisticsDate:   FromPgDate(row.StatisticsDate),
		ViewCount:        row.ViewCount,
		WatchTime:        row.WatchTime,
		AccumulatedViews: row.AccumulatedViews,
		DurationSeconds:  int8Ptr(row.DurationSeconds),
	}
}

// SettlementRateFromRow 转换费率行。
func SettlementRateFromRow(row batchdb.SettlementSettlementRate) (*po.SettlementRate, error) {
	typ, err := po.ParseSettlementType(row.Type)
	if err != nil {
		return nil, err
	}
	rate, err := NumericToDecimal(row.Rate)
	if err != nil {
		return nil, fmt.Errorf("settlement rate %d: %w", row.ID, err)
	}
	return &po.SettlementRate{
		ID:        row.ID,
		Type:      typ,
		MinViews:  row.MinViews,
		MaxViews:  int8Ptr(row.MaxViews),
		Rate:      rate,
		AppliedAt: timestampPtr(row.AppliedAt),
		ExpiredAt: timestampPtr(row.ExpiredAt),
	}, nil
}

// BuildInsertSettlementRateParams 构造费率插入参数。
func BuildInsertSettlementRateParams(rate po.SettlementRate) batchdb.InsertSettlementRateParams {
	return batchdb.InsertSettlementRateParams{
		Type:      string(rate.Type),
		MinViews:  rate.MinViews,
		MaxViews:  ToPgInt8(rate.MaxViews),
		Rate:      ToPgNumeric(rate.Rate),
		AppliedAt: ToPgTimestamptzPtr(rate.AppliedAt),
		ExpiredAt: ToPgTimestamptzPtr(rate.ExpiredAt),
	}
}

// BuildUpsertSettlementParams 构造结算 upsert 参数。
func BuildUpsertSettlementParams(s po.Settlement) batchdb.UpsertSettlementParams {
	return batchdb.UpsertSettlementParams{
		ContentID:      s.ContentID,
		SettlementDate: ToPgDate(s.SettlementDate),
		DailyViews:     s.DailyViews,
		TotalViews:     s.TotalViews,
		ContentAmount:  s.ContentAmount,
		AdAmount:       s.AdAmount,
		TotalAmount:    s.TotalAmount,
		Status:         string(s.Status),
	}
}

// SettlementFromRow 转换结算行。
func SettlementFromRow(row batchdb.SettlementSettlement) (*po.Settlement, error) {
	status, err := po.ParseSettlementStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return &po.Settlement{
		ID:             row.ID,
		ContentID:      row.ContentID,
		SettlementDate: FromPgDate(row.SettlementDate),
		DailyViews:     row.DailyViews,
		TotalViews:     row.TotalViews,
		ContentAmount:  row.ContentAmount,
		AdAmount:       row.AdAmount,
		TotalAmount:    row.TotalAmount,
		Status:         status,
		UpdatedAt:      mustTimestamp(row.UpdatedAt),
	}, nil
}

// CheckpointFromRow 转换分区 checkpoint。
func CheckpointFromRow(row batchdb.SettlementPartitionCheckpoint) *po.PartitionCheckpoint {
	return &po.PartitionCheckpoint{
		Phase:           po.Phase(row.Phase),
		TargetDate:      FromPgDate(row.TargetDate),
		Ordinal:         int(row.Ordinal),
		RangeStart:      row.RangeStart,
		RangeEnd:        row.RangeEnd,
		LastCommittedID: int8Ptr(row.LastCommittedID),
		RowsRead:        row.RowsRead,
		RowsWritten:     row.RowsWritten,
		RowsSkipped:     row.RowsSkipped,
		Status:          po.RunStatus(row.Status),
		RunToken:        row.RunToken,
		ErrorClass:      textPtr(row.ErrorClass),
		ErrorMessage:    textPtr(row.ErrorMessage),
		UpdatedAt:       mustTimestamp(row.UpdatedAt),
	}
}

// BatchRunFromRow 转换运行记录。
func BatchRunFromRow(row batchdb.SettlementBatchRun) *po.BatchRun {
	return &po.BatchRun{
		RunToken:         row.RunToken,
		TargetDate:       FromPgDate(row.TargetDate),
		Status:           po.RunStatus(row.Status),
		StatisticsStatus: po.RunStatus(row.StatisticsStatus),
		SettlementStatus: po.RunStatus(row.SettlementStatus),
		ErrorClass:       textPtr(row.ErrorClass),
		ErrorMessage:     textPtr(row.ErrorMessage),
		StartedAt:        mustTimestamp(row.StartedAt),
		FinishedAt:       timestampPtr(row.FinishedAt),
	}
}
