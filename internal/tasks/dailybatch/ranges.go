package dailybatch

import (
	"context"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// watchedRangeReader 返回当日被观看内容的 ID 域。
type watchedRangeReader interface {
	Range(ctx context.Context, sess txmanager.Session, date time.Time) (po.IDRange, error)
}

// dailyRangeReader 返回当日 DAILY 统计行的主键域。
type dailyRangeReader interface {
	DailyRange(ctx context.Context, sess txmanager.Session, date time.Time) (po.IDRange, error)
}

// StatisticsRange 解析统计阶段的内容 ID 域。
//
// 结果是缓存集合 daily-viewed-content:{date} 与 daily_watched_content 表两者 ID 域的并集：
// 集合可能只记录了部分内容（缓存被清理、写入失败），表是权威来源。
// 缓存出错时只使用表；表出错时返回错误。
type StatisticsRange struct {
	store   cache.Store
	watched watchedRangeReader
	log     *log.Helper
}

// NewStatisticsRange 构造 StatisticsRange。
func NewStatisticsRange(store cache.Store, watched watchedRangeReader, logger log.Logger) *StatisticsRange {
	return &StatisticsRange{store: store, watched: watched, log: log.NewHelper(logger)}
}

// ResolveRange 实现 batch.RangeResolver。
func (r *StatisticsRange) ResolveRange(ctx context.Context, date time.Time) (po.IDRange, error) {
	stored, err := r.watched.Range(ctx, nil, date)
	if err != nil {
		return po.IDRange{}, err
	}

	key := cache.DailyViewedContentKey(date)
	members, err := r.store.SMembers(ctx, key)
	if err != nil {
		r.log.WithContext(ctx).Warnw("msg", "read viewed content set failed, using database range", "key", key, "error", err)
		return stored, nil
	}
	cached, invalid, ok := rangeOfMembers(members)
	if invalid > 0 {
		r.log.WithContext(ctx).Warnw("msg", "viewed content set holds invalid ids", "key", key, "invalid", invalid)
	}
	if !ok {
		return stored, nil
	}
	if stored.Count > 0 && (stored.MinID < cached.MinID || stored.MaxID > cached.MaxID) {
		r.log.WithContext(ctx).Warnw("msg", "viewed content set misses watched content", "key", key,
			"cache_min", cached.MinID, "cache_max", cached.MaxID, "db_min", stored.MinID, "db_max", stored.MaxID)
	}
	return unionRange(cached, stored), nil
}

// unionRange 合并两个 ID 域。Count 取较大者，仅用于档位选择。
func unionRange(a, b po.IDRange) po.IDRange {
	if a.Count <= 0 {
		return b
	}
	if b.Count <= 0 {
		return a
	}
	return po.IDRange{
		MinID: min(a.MinID, b.MinID),
		MaxID: max(a.MaxID, b.MaxID),
		Count: max(a.Count, b.Count),
	}
}

func rangeOfMembers(members []string) (po.IDRange, int, bool) {
	var (
		rng     po.IDRange
		invalid int
	)
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil || id <= 0 {
			invalid++
			continue
		}
		if rng.Count == 0 || id < rng.MinID {
			rng.MinID = id
		}
		if rng.Count == 0 || id > rng.MaxID {
			rng.MaxID = id
		}
		rng.Count++
	}
	return rng, invalid, rng.Count > 0
}

// SettlementRange 返回结算阶段的统计行主键域。
func SettlementRange(stats dailyRangeReader) batch.RangeResolver {
	return batch.RangeResolverFunc(func(ctx context.Context, date time.Time) (po.IDRange, error) {
		return stats.DailyRange(ctx, nil, date)
	})
}
