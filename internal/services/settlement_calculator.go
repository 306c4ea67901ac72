package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// TieredCalculator 按累计播放数做累进计费，并只结算当日增量：
// 应付 = Delta(tiered(当前累计), tiered(此前累计))，此前累计取该日期之前最近一次结算。
type TieredCalculator struct {
	rates       *RateResolver
	settlements SettlementsRepository
	loc         *time.Location
	log         *log.Helper
}

// NewTieredCalculator 构造 TieredCalculator。loc 决定费率有效期判定所用的日界。
func NewTieredCalculator(rates *RateResolver, settlements SettlementsRepository, loc *time.Location, logger log.Logger) *TieredCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &TieredCalculator{rates: rates, settlements: settlements, loc: loc, log: log.NewHelper(logger)}
}

// Strategy 返回策略名。
func (c *TieredCalculator) Strategy() string { return StrategyTiered }

// Calculate 实现 SettlementCalculator。
func (c *TieredCalculator) Calculate(ctx context.Context, sess txmanager.Session, date time.Time, rows []po.DailyStatisticsRow) (batch.Transformed[po.Settlement], error) {
	if len(rows) == 0 {
		return batch.Transformed[po.Settlement]{}, nil
	}
	ts := StartOfDay(date, c.loc)
	content, err := c.rates.Brackets(ctx, po.SettlementContent, ts)
	if err != nil {
		return batch.Transformed[po.Settlement]{}, err
	}
	ads, err := c.rates.Brackets(ctx, po.SettlementAdvertisement, ts)
	if err != nil {
		return batch.Transformed[po.Settlement]{}, err
	}
	previous, err := previousCumulative(ctx, c.settlements, sess, date, rows)
	if err != nil {
		return batch.Transformed[po.Settlement]{}, err
	}

	day := DateOnly(date)
	return batch.TransformEach(rows, dailyRowKey, func(row po.DailyStatisticsRow) (po.Settlement, error) {
		if row.ViewCount < 0 {
			return po.Settlement{}, faults.Validation("statistics row %d: negative view count %d", row.ID, row.ViewCount)
		}
		prev := previous[row.ContentID]
		cur, err := checkedAdd(prev, row.ViewCount)
		if err != nil {
			return po.Settlement{}, err
		}
		contentAmount, err := tieredDelta(cur, prev, content)
		if err != nil {
			return po.Settlement{}, fmt.Errorf("content %d content amount: %w", row.ContentID, err)
		}
		perSlot, err := tieredDelta(cur, prev, ads)
		if err != nil {
			return po.Settlement{}, fmt.Errorf("content %d ad amount: %w", row.ContentID, err)
		}
		return buildSettlement(row, day, cur, contentAmount, perSlot)
	})
}

func tieredDelta(current, previous int64, brackets []po.SettlementRate) (int64, error) {
	cur, err := TieredAmount(current, brackets)
	if err != nil {
		return 0, err
	}
	prev, err := TieredAmount(previous, brackets)
	if err != nil {
		return 0, err
	}
	return Delta(cur, prev), nil
}

// FlatCalculator 以当日播放数匹配唯一档位，按单一费率计费；内容与广告分别计算。
type FlatCalculator struct {
	rates       *RateResolver
	settlements SettlementsRepository
	loc         *time.Location
	log         *log.Helper
}

// NewFlatCalculator 构造 FlatCalculator。
func NewFlatCalculator(rates *RateResolver, settlements SettlementsRepository, loc *time.Location, logger log.Logger) *FlatCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &FlatCalculator{rates: rates, settlements: settlements, loc: loc, log: log.NewHelper(logger)}
}

// Strategy 返回策略名。
func (c *FlatCalculator) Strategy() string { return StrategyFlat }

// Calculate 实现 SettlementCalculator。
func (c *FlatCalculator) Calculate(ctx context.Context, sess txmanager.Session, date time.Time, rows []po.DailyStatisticsRow) (batch.Transformed[po.Settlement], error) {
	if len(rows) == 0 {
		return batch.Transformed[po.Settlement]{}, nil
	}
	ts := StartOfDay(date, c.loc)
	previous, err := previousCumulative(ctx, c.settlements, sess, date, rows)
	if err != nil {
		return batch.Transformed[po.Settlement]{}, err
	}

	day := DateOnly(date)
	return batch.TransformEach(rows, dailyRowKey, func(row po.DailyStatisticsRow) (po.Settlement, error) {
		if row.ViewCount < 0 {
			return po.Settlement{}, faults.Validation("statistics row %d: negative view count %d", row.ID, row.ViewCount)
		}
		cur, err := checkedAdd(previous[row.ContentID], row.ViewCount)
		if err != nil {
			return po.Settlement{}, err
		}
		contentRate, err := c.rates.Resolve(ctx, po.SettlementContent, row.ViewCount, ts)
		if err != nil {
			return po.Settlement{}, err
		}
		adRate, err := c.rates.Resolve(ctx, po.SettlementAdvertisement, row.ViewCount, ts)
		if err != nil {
			return po.Settlement{}, err
		}
		contentAmount, err := FlatAmount(row.ViewCount, contentRate.Rate)
		if err != nil {
			return po.Settlement{}, err
		}
		perSlot, err := FlatAmount(row.ViewCount, adRate.Rate)
		if err != nil {
			return po.Settlement{}, err
		}
		return buildSettlement(row, day, cur, contentAmount, perSlot)
	})
}

func dailyRowKey(row po.DailyStatisticsRow) int64 { return row.ID }

func previousCumulative(ctx context.Context, repo SettlementsRepository, sess txmanager.Session, date time.Time, rows []po.DailyStatisticsRow) (map[int64]int64, error) {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ContentID)
	}
	prev, err := repo.ListPreviousCumulative(ctx, sess, ids, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("load previous cumulative views: %w", err)
	}
	return prev, nil
}

func buildSettlement(row po.DailyStatisticsRow, day time.Time, cumulative, contentAmount, adPerSlot int64) (po.Settlement, error) {
	adAmount, err := checkedMul(adPerSlot, AdSlots(row.DurationSeconds))
	if err != nil {
		return po.Settlement{}, err
	}
	total, err := checkedAdd(contentAmount, adAmount)
	if err != nil {
		return po.Settlement{}, err
	}
	return po.Settlement{
		ContentID:      row.ContentID,
		SettlementDate: day,
		DailyViews:     row.ViewCount,
		TotalViews:     cumulative,
		ContentAmount:  contentAmount,
		AdAmount:       adAmount,
		TotalAmount:    total,
		Status:         po.SettlementCalculated,
	}, nil
}
