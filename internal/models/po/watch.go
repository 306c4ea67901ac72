package po

import "time"

// WatchEvent 对应 settlement.watch_events，一次观看记录，写入后不可变。
type WatchEvent struct {
	ID                  int64
	MemberID            int64
	ContentID           int64
	WatchedDate         time.Time
	LastPlayedPosition  int64
	TotalWatchedSeconds int64
	Status              WatchStatus
	CreatedAt           time.Time
}

// ViewAggregate 是数据源按内容预聚合的一天观看数据。
type ViewAggregate struct {
	ContentID       int64
	TotalViews      int64
	TotalWatchTime  int64
	DistinctViewers int64
}

// DailyWatchedContent 对应 settlement.daily_watched_content。
type DailyWatchedContent struct {
	ID          int64
	ContentID   int64
	WatchedDate time.Time
}

// IDRange 是某一日期下工作量的 ID 域。
type IDRange struct {
	MinID int64
	MaxID int64
	Count int64
}

// Content 对应 settlement.contents。
// TotalViews 为外部维护的累计播放计数器。
type Content struct {
	ID              int64
	CreatorID       int64
	Title           string
	DurationSeconds *int64
	TotalViews      int64
}
