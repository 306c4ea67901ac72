package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/stretchr/testify/require"
)

func TestSplitCoversRangeWithoutGaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rng   po.IDRange
		count int
		want  int
	}{
		{po.IDRange{MinID: 1, MaxID: 10, Count: 10}, 3, 3},
		{po.IDRange{MinID: 1, MaxID: 10, Count: 10}, 1, 1},
		{po.IDRange{MinID: 5, MaxID: 1000, Count: 40}, 8, 8},
		{po.IDRange{MinID: 100, MaxID: 101, Count: 2}, 8, 2},
		{po.IDRange{MinID: 7, MaxID: 7, Count: 1}, 4, 1},
		{po.IDRange{MinID: 1, MaxID: 9, Count: 9}, 4, 3},
	}
	for _, tc := range cases {
		parts := batch.Split(tc.rng, tc.count, targetDate)
		require.Len(t, parts, tc.want, "range %+v count %d", tc.rng, tc.count)
		require.Equal(t, tc.rng.MinID, parts[0].Start)
		require.Equal(t, tc.rng.MaxID, parts[len(parts)-1].End)
		for i, p := range parts {
			require.Equal(t, i, p.Ordinal)
			require.LessOrEqual(t, p.Start, p.End)
			require.Equal(t, targetDate, p.TargetDate)
			if i > 0 {
				require.Equal(t, parts[i-1].End+1, p.Start, "windows must be contiguous")
			}
		}
	}
}

func TestSplitEmptyProducesDegeneratePartition(t *testing.T) {
	t.Parallel()

	parts := batch.Split(po.IDRange{}, 8, targetDate)
	require.Len(t, parts, 1)
	require.True(t, parts[0].Empty())
}

func TestSizeTiersBoundaries(t *testing.T) {
	t.Parallel()

	tiers := batch.DefaultSizeTiers
	cases := map[int64]int{
		0:          1,
		9_999:      1,
		10_000:     2,
		99_999:     2,
		100_000:    4,
		999_999:    4,
		1_000_000:  8,
		50_000_000: 8,
	}
	for total, want := range cases {
		require.Equalf(t, want, tiers.PartitionsFor(total, 3), "total %d", total)
	}

	bounded := batch.SizeTiers{{Below: 10, Partitions: 1}}
	require.Equal(t, 5, bounded.PartitionsFor(100, 5))
}

func TestPartitionerTierOverridesGrid(t *testing.T) {
	t.Parallel()

	resolver := batch.RangeResolverFunc(func(context.Context, time.Time) (po.IDRange, error) {
		return po.IDRange{MinID: 1, MaxID: 20_000, Count: 10_000}, nil
	})
	parts, err := batch.NewPartitioner(resolver, nil).Plan(context.Background(), targetDate, 8)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, batch.Partition{Ordinal: 0, Start: 1, End: 10_000, TargetDate: targetDate}, parts[0])
	require.Equal(t, batch.Partition{Ordinal: 1, Start: 10_001, End: 20_000, TargetDate: targetDate}, parts[1])

	boom := errors.New("boom")
	failing := batch.RangeResolverFunc(func(context.Context, time.Time) (po.IDRange, error) {
		return po.IDRange{}, boom
	})
	_, err = batch.NewPartitioner(failing, nil).Plan(context.Background(), targetDate, 1)
	require.ErrorIs(t, err, boom)
}

func TestUncoveredFindsHeadGapAndTail(t *testing.T) {
	t.Parallel()

	plan := []batch.Partition{
		{Ordinal: 0, Start: 0, End: 0},
		{Ordinal: 1, Start: 5, End: 9},
		{Ordinal: 2, Start: 15, End: 20},
	}
	gaps := batch.Uncovered(plan, po.IDRange{MinID: 1, MaxID: 30, Count: 12})
	require.Equal(t, []po.IDRange{
		{MinID: 1, MaxID: 4, Count: 4},
		{MinID: 10, MaxID: 14, Count: 5},
		{MinID: 21, MaxID: 30, Count: 10},
	}, gaps)

	require.Empty(t, batch.Uncovered(plan, po.IDRange{MinID: 5, MaxID: 9, Count: 3}))
	require.Empty(t, batch.Uncovered(plan, po.IDRange{}))
}

func TestValidatePlanRejectsBrokenPlans(t *testing.T) {
	t.Parallel()

	require.NoError(t, batch.ValidatePlan([]batch.Partition{
		{Ordinal: 0, Start: 1, End: 5},
		{Ordinal: 1, Start: 6, End: 10},
	}))

	cases := map[string][]batch.Partition{
		"ordinal gap": {{Ordinal: 0, Start: 1, End: 5}, {Ordinal: 2, Start: 6, End: 10}},
		"overlap":     {{Ordinal: 0, Start: 1, End: 6}, {Ordinal: 1, Start: 6, End: 10}},
		"inverted":    {{Ordinal: 0, Start: 9, End: 3}},
	}
	for name, plan := range cases {
		err := batch.ValidatePlan(plan)
		require.Errorf(t, err, name)
		require.Equal(t, faults.ReasonConfiguration, faults.Reason(err), name)
	}
}
