// Package batch 实现分区化的批处理引擎：按 ID 域切分分区、逐块 fetch → transform → persist，
// 每块在一个事务内提交并推进 checkpoint，支持有界重试、有界跳过与断点续跑。
package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
)

// Partition 是一个闭区间 [Start, End] 的工作单元。
type Partition struct {
	Ordinal    int
	Start      int64
	End        int64
	TargetDate time.Time
}

// Empty 报告是否为无数据时的退化分区 {0,0}。
func (p Partition) Empty() bool {
	return p.Start == 0 && p.End == 0
}

func (p Partition) String() string {
	return fmt.Sprintf("#%d[%d,%d]", p.Ordinal, p.Start, p.End)
}

// RangeResolver 解析某一日期下的工作量 ID 域。
type RangeResolver interface {
	ResolveRange(ctx context.Context, date time.Time) (po.IDRange, error)
}

// RangeResolverFunc 将函数适配为 RangeResolver。
type RangeResolverFunc func(ctx context.Context, date time.Time) (po.IDRange, error)

// ResolveRange 实现 RangeResolver。
func (f RangeResolverFunc) ResolveRange(ctx context.Context, date time.Time) (po.IDRange, error) {
	return f(ctx, date)
}

// SizeTier 表示 "总量 < Below 时使用 Partitions 个分区"。Below 为 0 的档位兜底。
type SizeTier struct {
	Below      int64
	Partitions int
}

// SizeTiers 按 Below 升序排列，兜底档位在末尾。
type SizeTiers []SizeTier

// DefaultSizeTiers 为 <10K→1, <100K→2, <1M→4, 其余→8。
var DefaultSizeTiers = SizeTiers{
	{Below: 10_000, Partitions: 1},
	{Below: 100_000, Partitions: 2},
	{Below: 1_000_000, Partitions: 4},
	{Below: 0, Partitions: 8},
}

// PartitionsFor 返回总量对应的分区数；不在任何档位内时返回 fallback。
func (t SizeTiers) PartitionsFor(total int64, fallback int) int {
	for _, tier := range t {
		if tier.Below == 0 || total < tier.Below {
			return tier.Partitions
		}
	}
	if fallback < 1 {
		return 1
	}
	return fallback
}

// Partitioner 把一个日期的 ID 域切成若干分区。
type Partitioner struct {
	resolver RangeResolver
	tiers    SizeTiers
}

// NewPartitioner 构造 Partitioner；tiers 为空时使用默认档位。
func NewPartitioner(resolver RangeResolver, tiers SizeTiers) *Partitioner {
	if len(tiers) == 0 {
		tiers = DefaultSizeTiers
	}
	return &Partitioner{resolver: resolver, tiers: tiers}
}

// Plan 解析 ID 域并切分。档位结果覆盖调用方请求的 grid。
func (p *Partitioner) Plan(ctx context.Context, date time.Time, grid int) ([]Partition, error) {
	rng, err := p.Resolve(ctx, date)
	if err != nil {
		return nil, err
	}
	return p.cut(rng, grid, date), nil
}

// Resolve 只解析 ID 域。
func (p *Partitioner) Resolve(ctx context.Context, date time.Time) (po.IDRange, error) {
	rng, err := p.resolver.ResolveRange(ctx, date)
	if err != nil {
		return po.IDRange{}, fmt.Errorf("resolve range: %w", err)
	}
	return rng, nil
}

func (p *Partitioner) cut(rng po.IDRange, grid int, date time.Time) []Partition {
	return Split(rng, p.tiers.PartitionsFor(rng.Count, grid), date)
}

// Extend 为既有计划未覆盖的 ID 段追加分区，序号接在 plan 之后。
// 每个空洞按自身跨度选档位切分；全部覆盖时返回 nil。
func (p *Partitioner) Extend(rng po.IDRange, plan []Partition, date time.Time) []Partition {
	var out []Partition
	next := len(plan)
	for _, gap := range Uncovered(plan, rng) {
		for _, part := range Split(gap, p.tiers.PartitionsFor(gap.Count, 1), date) {
			part.Ordinal = next
			next++
			out = append(out, part)
		}
	}
	return out
}

// ValidatePlan 检查已持久化的计划：序号自 0 连续，非空窗口合法且互不重叠。
func ValidatePlan(plan []Partition) error {
	windows := make([]Partition, 0, len(plan))
	for i, part := range plan {
		if part.Ordinal != i {
			return faults.Configuration("partition plan has ordinal %d at position %d", part.Ordinal, i)
		}
		if part.Empty() {
			continue
		}
		if part.End < part.Start {
			return faults.Configuration("partition %s has an inverted range", part)
		}
		windows = append(windows, part)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	for i := 1; i < len(windows); i++ {
		if windows[i].Start <= windows[i-1].End {
			return faults.Configuration("partitions %s and %s overlap", windows[i-1], windows[i])
		}
	}
	return nil
}

// Uncovered 返回 [MinID, MaxID] 中没有被任何非空窗口覆盖的闭区间，按起点升序。
// 返回区间的 Count 取其跨度。
func Uncovered(plan []Partition, rng po.IDRange) []po.IDRange {
	if rng.Count <= 0 || rng.MaxID < rng.MinID {
		return nil
	}
	windows := make([]Partition, 0, len(plan))
	for _, part := range plan {
		if !part.Empty() {
			windows = append(windows, part)
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })

	var gaps []po.IDRange
	cursor := rng.MinID
	for _, w := range windows {
		if cursor > rng.MaxID {
			return gaps
		}
		if w.End < cursor {
			continue
		}
		if w.Start > cursor {
			end := min(w.Start-1, rng.MaxID)
			gaps = append(gaps, po.IDRange{MinID: cursor, MaxID: end, Count: end - cursor + 1})
		}
		cursor = w.End + 1
	}
	if cursor <= rng.MaxID {
		gaps = append(gaps, po.IDRange{MinID: cursor, MaxID: rng.MaxID, Count: rng.MaxID - cursor + 1})
	}
	return gaps
}

// Split 把 [MinID, MaxID] 均分为至多 count 个不重叠、无空洞的窗口。
//
// 窗口宽度为 ceil((max-min+1)/count)，最后一个窗口以 max 结束；
// ID 域比 count 窄时只产出非空窗口。无数据时返回唯一的 {0,0} 分区。
func Split(rng po.IDRange, count int, date time.Time) []Partition {
	if rng.Count <= 0 || rng.MaxID < rng.MinID {
		return []Partition{{Ordinal: 0, Start: 0, End: 0, TargetDate: date}}
	}
	if count < 1 {
		count = 1
	}
	span := rng.MaxID - rng.MinID + 1
	size := (span + int64(count) - 1) / int64(count)

	out := make([]Partition, 0, count)
	for start := rng.MinID; start <= rng.MaxID; start += size {
		end := start + size - 1
		if end > rng.MaxID || end < start {
			end = rng.MaxID
		}
		out = append(out, Partition{Ordinal: len(out), Start: start, End: end, TargetDate: date})
		if end == rng.MaxID {
			break
		}
	}
	return out
}
