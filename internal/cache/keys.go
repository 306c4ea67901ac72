package cache

import (
	"fmt"
	"time"
)

// minuteLayout 对应 yyyy-MM-dd'T'HHmm。
const minuteLayout = "2006-01-02T1504"

// DailyViewedContentKey 当日被观看内容 ID 集合。
func DailyViewedContentKey(date time.Time) string {
	return "daily-viewed-content:" + date.Format(time.DateOnly)
}

// DailyViewedContentLockKey 保护单个内容的当日首次观看判定。
func DailyViewedContentLockKey(date time.Time, contentID int64) string {
	return fmt.Sprintf("lock:daily-viewed-content:%s:%d", date.Format(time.DateOnly), contentID)
}

// ViewCountKey 分钟级观看计数桶（hash: contentId → count）。
func ViewCountKey(at time.Time) string {
	return "view-count:time:" + at.Format(minuteLayout)
}

// ViewCountSyncLockKey 保护单个分钟桶的回刷。
func ViewCountSyncLockKey(minute time.Time) string {
	return "lock:view-count:sync:" + minute.Format(minuteLayout)
}

// AbuseKey 单个 (内容, 观众, 来源) 的短期观看标记。
func AbuseKey(contentID, memberID int64, ip string) string {
	return fmt.Sprintf("abuse:content:%d:member:%d:ip:%s", contentID, memberID, ip)
}

// AbuseLockKey 保护 AbuseKey 的检查与写入。
func AbuseLockKey(contentID, memberID int64, ip string) string {
	return "lock:" + AbuseKey(contentID, memberID, ip)
}

// ContentStatisticsKey 当日统计快照（hash: contentId → viewCount）。
func ContentStatisticsKey(date time.Time) string {
	return "content-statistics:" + date.Format(time.DateOnly)
}
