package po

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementRate 对应 settlement.settlement_rates，费率档位。
// MaxViews、AppliedAt、ExpiredAt 为空表示无界。
type SettlementRate struct {
	ID        int64
	Type      SettlementType
	MinViews  int64
	MaxViews  *int64
	Rate      decimal.Decimal
	AppliedAt *time.Time
	ExpiredAt *time.Time
}

// ContainsViews 判断播放数是否落在 [MinViews, MaxViews]。
func (r SettlementRate) ContainsViews(views int64) bool {
	if views < r.MinViews {
		return false
	}
	return r.MaxViews == nil || views <= *r.MaxViews
}

// ValidAt 判断时间是否落在 [AppliedAt, ExpiredAt)。
func (r SettlementRate) ValidAt(ts time.Time) bool {
	if r.AppliedAt != nil && ts.Before(*r.AppliedAt) {
		return false
	}
	if r.ExpiredAt != nil && !ts.Before(*r.ExpiredAt) {
		return false
	}
	return true
}

// Settlement 对应 settlement.settlements，唯一键 (content_id, settlement_date)。
type Settlement struct {
	ID             int64
	ContentID      int64
	SettlementDate time.Time
	DailyViews     int64
	TotalViews     int64
	ContentAmount  int64
	AdAmount       int64
	TotalAmount    int64
	Status         SettlementStatus
	UpdatedAt      time.Time
}
