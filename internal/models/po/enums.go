// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射 settlement schema 下的表结构；枚举类型与数据库 CHECK 约束一一对应。
package po

import "fmt"

// PeriodType 表示统计周期。对应 content_statistics.period。
type PeriodType string

// 统计周期常量。
const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodYearly  PeriodType = "YEARLY"
)

// AllPeriods 按粒度从细到粗返回全部周期。
func AllPeriods() []PeriodType {
	return []PeriodType{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}
}

// ParsePeriodType 校验并返回周期枚举。
func ParsePeriodType(raw string) (PeriodType, error) {
	switch p := PeriodType(raw); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period type %q", raw)
	}
}

// SettlementType 表示费率适用的结算类型。对应 settlement_rates.type。
type SettlementType string

// 结算类型常量。
const (
	SettlementContent       SettlementType = "CONTENT"
	SettlementAdvertisement SettlementType = "ADVERTISEMENT"
)

// ParseSettlementType 校验并返回结算类型。
func ParseSettlementType(raw string) (SettlementType, error) {
	switch t := SettlementType(raw); t {
	case SettlementContent, SettlementAdvertisement:
		return t, nil
	default:
		return "", fmt.Errorf("unknown settlement type %q", raw)
	}
}

// SettlementStatus 表示结算记录状态。
type SettlementStatus string

// 结算状态常量。
const (
	SettlementCalculated SettlementStatus = "CALCULATED"
	SettlementCompleted  SettlementStatus = "COMPLETED"
	SettlementFailed     SettlementStatus = "FAILED"
)

// ParseSettlementStatus 校验并返回结算状态。
func ParseSettlementStatus(raw string) (SettlementStatus, error) {
	switch s := SettlementStatus(raw); s {
	case SettlementCalculated, SettlementCompleted, SettlementFailed:
		return s, nil
	default:
		return "", fmt.Errorf("unknown settlement status %q", raw)
	}
}

// WatchStatus 表示一次观看的播放状态。
type WatchStatus string

// 播放状态常量。
const (
	WatchPlaying   WatchStatus = "PLAYING"
	WatchPaused    WatchStatus = "PAUSED"
	WatchCompleted WatchStatus = "COMPLETED"
)

// ParseWatchStatus 校验并返回播放状态。
func ParseWatchStatus(raw string) (WatchStatus, error) {
	switch s := WatchStatus(raw); s {
	case WatchPlaying, WatchPaused, WatchCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("unknown watch status %q", raw)
	}
}

// Phase 表示日批的阶段。
type Phase string

// 阶段常量。
const (
	PhaseStatistics Phase = "STATISTICS"
	PhaseSettlement Phase = "SETTLEMENT"
)

// RunStatus 表示分区、阶段或整次运行的状态。
type RunStatus string

// 运行状态常量。
const (
	StatusPending   RunStatus = "PENDING"
	StatusRunning   RunStatus = "RUNNING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
	StatusSkipped   RunStatus = "SKIPPED"
)

// Terminal 判断是否为终态。
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}
