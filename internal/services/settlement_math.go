package services

import (
	"math"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/shopspring/decimal"
)

// adSlotSeconds 为一个广告位对应的视频时长。
const adSlotSeconds = 300

var (
	maxInt64Dec = decimal.NewFromInt(math.MaxInt64)
	minInt64Dec = decimal.NewFromInt(math.MinInt64)
)

// Delta 返回 max(0, current-previous)，数据下修不会产生负数应付。
func Delta(current, previous int64) int64 {
	if current <= previous {
		return 0
	}
	return current - previous
}

// AdSlots 返回 ceil(duration/300)；时长为空或非正时为 0。
func AdSlots(durationSeconds *int64) int64 {
	if durationSeconds == nil || *durationSeconds <= 0 {
		return 0
	}
	d := *durationSeconds
	slots := d / adSlotSeconds
	if d%adSlotSeconds != 0 {
		slots++
	}
	return slots
}

// FlatAmount 返回 floor(views × rate)。
func FlatAmount(views int64, rate decimal.Decimal) (int64, error) {
	if views <= 0 {
		return 0, nil
	}
	if rate.IsNegative() {
		return 0, faults.Configuration("negative rate %s", rate.String())
	}
	return floorInt64(decimal.NewFromInt(views).Mul(rate), "views*rate")
}

// TieredAmount 按档位累进计算 1..views 的应付金额：每个档位取与 [1, views] 的重叠部分，
// 乘以该档费率后向下取整再累加。brackets 须已按下限升序且首尾相接。
func TieredAmount(views int64, brackets []po.SettlementRate) (int64, error) {
	if views <= 0 {
		return 0, nil
	}
	if len(brackets) == 0 {
		return 0, faults.Configuration("no rate brackets for %d views", views)
	}
	if first := brackets[0].MinViews; first > 1 {
		return 0, faults.Configuration("views below %d are not covered by any bracket", first)
	}
	if last := brackets[len(brackets)-1]; last.MaxViews != nil && views > *last.MaxViews {
		return 0, faults.Configuration("%d views exceed the highest bracket (max %d)", views, *last.MaxViews)
	}

	var total int64
	for _, b := range brackets {
		if b.Rate.IsNegative() {
			return 0, faults.Configuration("negative rate %s in bracket starting at %d", b.Rate.String(), b.MinViews)
		}
		lo := max(b.MinViews, 1)
		hi := views
		if b.MaxViews != nil {
			hi = min(hi, *b.MaxViews)
		}
		if hi < lo {
			continue
		}
		overlap := hi - lo + 1
		amount, err := floorInt64(decimal.NewFromInt(overlap).Mul(b.Rate), "overlap*rate")
		if err != nil {
			return 0, err
		}
		if total, err = checkedAdd(total, amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func floorInt64(d decimal.Decimal, what string) (int64, error) {
	f := d.Floor()
	if f.GreaterThan(maxInt64Dec) || f.LessThan(minInt64Dec) {
		return 0, faults.Overflow("%s = %s overflows int64", what, f.String())
	}
	return f.IntPart(), nil
}

func checkedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, faults.Overflow("%d + %d overflows int64", a, b)
	}
	return a + b, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, faults.Overflow("%d * %d overflows int64", a, b)
	}
	return c, nil
}
