package po

import "time"

// ContentStatistics 对应 settlement.content_statistics。
// 唯一键 (content_id, statistics_date, period)。
type ContentStatistics struct {
	ID               int64
	ContentID        int64
	StatisticsDate   time.Time
	Period           PeriodType
	ViewCount        int64
	WatchTime        int64
	AccumulatedViews int64
}

// StatisticsKey 是统计行的业务键。
type StatisticsKey struct {
	ContentID      int64
	StatisticsDate time.Time
	Period         PeriodType
}

// Key 返回行的业务键。
func (s ContentStatistics) Key() StatisticsKey {
	return StatisticsKey{ContentID: s.ContentID, StatisticsDate: s.StatisticsDate, Period: s.Period}
}

// DailyStatisticsRow 是结算阶段读取的日统计行，附带内容时长。
type DailyStatisticsRow struct {
	ID               int64
	ContentID        int64
	StatisticsDate   time.Time
	ViewCount        int64
	WatchTime        int64
	AccumulatedViews int64
	DurationSeconds  *int64
}
