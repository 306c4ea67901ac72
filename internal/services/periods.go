package services

import (
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
)

// DateOnly 把时间截断为所在时区的日期，并以 UTC 零点表示，与数据库 date 列读回的值一致。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodStart 返回日期所属统计周期的起始日：
// DAILY 为当天，WEEKLY 为不晚于当天的最近一个周一，MONTHLY 为当月 1 日，YEARLY 为当年 1 月 1 日。
func PeriodStart(date time.Time, period po.PeriodType) time.Time {
	day := DateOnly(date)
	switch period {
	case po.PeriodDaily:
		return day
	case po.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case po.PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case po.PeriodYearly:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		panic("services: unknown period " + string(period))
	}
}

// StartOfDay 返回日期在 loc 时区的零点，用于费率有效期判定。
func StartOfDay(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
