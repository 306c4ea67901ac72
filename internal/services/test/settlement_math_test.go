package services_test

import (
	"math"
	"testing"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDeltaNeverNegative(t *testing.T) {
	t.Parallel()

	for _, pair := range [][2]int64{{0, 1}, {5, 10}, {999, 1000}, {-3, 0}, {0, math.MaxInt64}} {
		require.Zero(t, services.Delta(pair[0], pair[1]), "current=%d previous=%d", pair[0], pair[1])
	}
	require.Zero(t, services.Delta(7, 7))
	require.Equal(t, int64(3), services.Delta(10, 7))
}

func TestAdSlots(t *testing.T) {
	t.Parallel()

	require.Zero(t, services.AdSlots(nil))
	require.Zero(t, services.AdSlots(ptrInt64(0)))
	require.Zero(t, services.AdSlots(ptrInt64(-30)))
	require.Equal(t, int64(1), services.AdSlots(ptrInt64(1)))
	require.Equal(t, int64(1), services.AdSlots(ptrInt64(299)))
	require.Equal(t, int64(1), services.AdSlots(ptrInt64(300)))
	require.Equal(t, int64(2), services.AdSlots(ptrInt64(301)))
	require.Equal(t, int64(2), services.AdSlots(ptrInt64(600)))
}

func TestFlatAmountFloors(t *testing.T) {
	t.Parallel()

	amount, err := services.FlatAmount(3, decimal.RequireFromString("0.4"))
	require.NoError(t, err)
	require.Equal(t, int64(1), amount)

	amount, err = services.FlatAmount(0, decimal.RequireFromString("0.4"))
	require.NoError(t, err)
	require.Zero(t, amount)

	_, err = services.FlatAmount(math.MaxInt64, decimal.NewFromInt(2))
	require.Equal(t, faults.ReasonArithmeticOverflow, faults.Reason(err))
}

func TestTieredAmountWalksBrackets(t *testing.T) {
	t.Parallel()

	brackets := []po.SettlementRate{
		bracket(po.SettlementContent, 0, ptrInt64(100), "1"),
		bracket(po.SettlementContent, 101, ptrInt64(200), "0.5"),
		bracket(po.SettlementContent, 201, nil, "0.1"),
	}
	cases := map[int64]int64{
		0:   0,
		1:   1,
		100: 100,
		101: 100,
		102: 101,
		200: 150,
		250: 155,
	}
	for views, want := range cases {
		got, err := services.TieredAmount(views, brackets)
		require.NoError(t, err)
		require.Equal(t, want, got, "views=%d", views)
	}
}

func TestTieredAmountSingleBracket(t *testing.T) {
	t.Parallel()

	got, err := services.TieredAmount(3, []po.SettlementRate{bracket(po.SettlementContent, 0, ptrInt64(1000), "0.4")})
	require.NoError(t, err)
	require.Equal(t, int64(1), got)
}

func TestTieredAmountUncoveredViews(t *testing.T) {
	t.Parallel()

	brackets := []po.SettlementRate{bracket(po.SettlementContent, 0, ptrInt64(1000), "0.4")}
	_, err := services.TieredAmount(1001, brackets)
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(err))

	_, err = services.TieredAmount(5, []po.SettlementRate{bracket(po.SettlementContent, 10, nil, "1")})
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(err))

	_, err = services.TieredAmount(5, nil)
	require.Equal(t, faults.ReasonConfiguration, faults.Reason(err))
}

func TestTieredAmountOverflow(t *testing.T) {
	t.Parallel()

	brackets := []po.SettlementRate{
		bracket(po.SettlementContent, 0, ptrInt64(math.MaxInt64/2), "1"),
		bracket(po.SettlementContent, math.MaxInt64/2+1, nil, "3"),
	}
	_, err := services.TieredAmount(math.MaxInt64, brackets)
	require.Error(t, err)
	require.Equal(t, faults.ReasonArithmeticOverflow, faults.Reason(err))
	require.Equal(t, faults.ClassFatal, faults.Classify(err))
}
