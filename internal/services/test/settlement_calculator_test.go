package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/bionicotaku/lingo-services-settlement/internal/services/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type calculatorFixture struct {
	rates       *mocks.MockSettlementRatesRepository
	settlements *mocks.MockSettlementsRepository
	resolver    *services.RateResolver
}

func newCalculatorFixture(t *testing.T, content, ads []po.SettlementRate) calculatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	rates := mocks.NewMockSettlementRatesRepository(ctrl)
	rates.EXPECT().ListByType(gomock.Any(), po.SettlementContent).Return(content, nil).AnyTimes()
	rates.EXPECT().ListByType(gomock.Any(), po.SettlementAdvertisement).Return(ads, nil).AnyTimes()
	return calculatorFixture{
		rates:       rates,
		settlements: mocks.NewMockSettlementsRepository(ctrl),
		resolver:    services.NewRateResolver(rates, discard()),
	}
}

var settleDate = day(2025, time.March, 14)

func TestTieredCalculator_EndToEndAmounts(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t,
		[]po.SettlementRate{bracket(po.SettlementContent, 0, ptrInt64(1000), "0.4")},
		[]po.SettlementRate{bracket(po.SettlementAdvertisement, 0, nil, "0.5")},
	)
	fx.settlements.EXPECT().ListPreviousCumulative(gomock.Any(), gomock.Any(), []int64{7}, settleDate).Return(map[int64]int64{}, nil)
	calc := services.NewTieredCalculator(fx.resolver, fx.settlements, time.UTC, discard())
	require.Equal(t, services.StrategyTiered, calc.Strategy())

	out, err := calc.Calculate(context.Background(), fakeSession{}, settleDate, []po.DailyStatisticsRow{
		{ID: 1, ContentID: 7, StatisticsDate: settleDate, ViewCount: 3, DurationSeconds: ptrInt64(301)},
	})
	require.NoError(t, err)
	require.Empty(t, out.Rejects)
	require.Len(t, out.Rows, 1)
	got := out.Rows[0]
	require.Equal(t, int64(1), got.ContentAmount)
	require.Equal(t, int64(2), got.AdAmount, "floor(3*0.5)=1 per slot, 2 slots")
	require.Equal(t, int64(3), got.TotalAmount)
	require.Equal(t, int64(3), got.DailyViews)
	require.Equal(t, int64(3), got.TotalViews)
	require.Equal(t, po.SettlementCalculated, got.Status)
	require.Equal(t, settleDate, got.SettlementDate)
}

func TestTieredCalculator_PaysOnlyTheDelta(t *testing.T) {
	t.Parallel()

	content := []po.SettlementRate{
		bracket(po.SettlementContent, 0, ptrInt64(1000), "0.4"),
		bracket(po.SettlementContent, 1001, nil, "1"),
	}
	fx := newCalculatorFixture(t, content, []po.SettlementRate{bracket(po.SettlementAdvertisement, 0, nil, "0")})
	fx.settlements.EXPECT().ListPreviousCumulative(gomock.Any(), gomock.Any(), []int64{7, 8}, settleDate).
		Return(map[int64]int64{7: 1000, 8: 10}, nil)
	calc := services.NewTieredCalculator(fx.resolver, fx.settlements, time.UTC, discard())

	out, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{
		{ID: 1, ContentID: 7, ViewCount: 10},
		{ID: 2, ContentID: 8, ViewCount: 0},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	require.Equal(t, int64(10), out.Rows[0].ContentAmount, "tiered(1010)-tiered(1000) = 410-400")
	require.Equal(t, int64(1010), out.Rows[0].TotalViews)
	require.Zero(t, out.Rows[1].ContentAmount)
	require.Equal(t, int64(10), out.Rows[1].TotalViews)
	require.Zero(t, out.Rows[0].AdAmount, "no duration means no ad slots")
}

func TestTieredCalculator_SkipsNegativeRow(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t,
		[]po.SettlementRate{bracket(po.SettlementContent, 0, nil, "1")},
		[]po.SettlementRate{bracket(po.SettlementAdvertisement, 0, nil, "1")},
	)
	fx.settlements.EXPECT().ListPreviousCumulative(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	calc := services.NewTieredCalculator(fx.resolver, fx.settlements, time.UTC, discard())

	out, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{
		{ID: 1, ContentID: 7, ViewCount: -1},
		{ID: 2, ContentID: 8, ViewCount: 2},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	require.Len(t, out.Rejects, 1)
	require.Equal(t, int64(1), out.Rejects[0].Key)
	require.Equal(t, faults.ReasonValidation, faults.Reason(out.Rejects[0].Err))
}

func TestTieredCalculator_MissingRatesFailChunk(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t, []po.SettlementRate{bracket(po.SettlementContent, 0, nil, "1")}, nil)
	calc := services.NewTieredCalculator(fx.resolver, fx.settlements, time.UTC, discard())

	_, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{{ID: 1, ContentID: 7, ViewCount: 2}})
	require.Error(t, err)
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(err))
}

func TestTieredCalculator_GapFailsChunk(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t,
		[]po.SettlementRate{
			bracket(po.SettlementContent, 0, ptrInt64(100), "1"),
			bracket(po.SettlementContent, 150, nil, "1"),
		},
		[]po.SettlementRate{bracket(po.SettlementAdvertisement, 0, nil, "1")},
	)
	calc := services.NewTieredCalculator(fx.resolver, fx.settlements, time.UTC, discard())

	_, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{{ID: 1, ContentID: 7, ViewCount: 2}})
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(err))
}

func TestFlatCalculator_SingleRate(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t,
		[]po.SettlementRate{bracket(po.SettlementContent, 0, ptrInt64(1000), "0.4")},
		[]po.SettlementRate{bracket(po.SettlementAdvertisement, 0, ptrInt64(1000), "0.5")},
	)
	fx.settlements.EXPECT().ListPreviousCumulative(gomock.Any(), gomock.Any(), []int64{7, 8}, settleDate).
		Return(map[int64]int64{7: 40}, nil)
	calc := services.NewFlatCalculator(fx.resolver, fx.settlements, time.UTC, discard())
	require.Equal(t, services.StrategyFlat, calc.Strategy())

	out, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{
		{ID: 1, ContentID: 7, ViewCount: 3},
		{ID: 2, ContentID: 8, ViewCount: 10, DurationSeconds: ptrInt64(600)},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	first := out.Rows[0]
	require.Equal(t, int64(1), first.ContentAmount)
	require.Zero(t, first.AdAmount)
	require.Equal(t, int64(43), first.TotalViews)

	second := out.Rows[1]
	require.Equal(t, int64(4), second.ContentAmount)
	require.Equal(t, int64(10), second.AdAmount, "floor(10*0.5)=5 per slot, 2 slots")
	require.Equal(t, int64(14), second.TotalAmount)
}

func TestFlatCalculator_NoRateIsFatal(t *testing.T) {
	t.Parallel()

	fx := newCalculatorFixture(t,
		[]po.SettlementRate{bracket(po.SettlementContent, 0, ptrInt64(10), "0.4")},
		[]po.SettlementRate{bracket(po.SettlementAdvertisement, 0, nil, "0.5")},
	)
	fx.settlements.EXPECT().ListPreviousCumulative(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(map[int64]int64{}, nil)
	calc := services.NewFlatCalculator(fx.resolver, fx.settlements, time.UTC, discard())

	_, err := calc.Calculate(context.Background(), nil, settleDate, []po.DailyStatisticsRow{{ID: 1, ContentID: 7, ViewCount: 11}})
	require.Error(t, err)
	require.Equal(t, faults.ClassFatal, faults.Classify(err))
}
