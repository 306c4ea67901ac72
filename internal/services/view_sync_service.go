package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// ViewSyncOptions 控制分钟桶回刷。
type ViewSyncOptions struct {
	Interval time.Duration
	// Lookback 为回看窗口，窗口内已关闭的分钟桶都会被尝试回刷。
	Lookback time.Duration
}

// SyncResult 汇总一轮回刷。
type SyncResult struct {
	Buckets int
	Views   int64
	// Contended 为被其他实例持锁而跳过的桶数。
	Contended int
	Invalid   int
}

// ViewSyncService 把已关闭的分钟计数桶累加进 contents.total_views。
// 每个桶一个事务，提交后删除桶；删除失败时下一轮会重复累加，语义为至少一次。
type ViewSyncService struct {
	store    cache.Store
	contents ContentsRepository
	tx       txmanager.Manager
	policy   cache.Policy
	opts     ViewSyncOptions
	loc      *time.Location
	log      *log.Helper
	metrics  *viewMetrics
}

// NewViewSyncService 构造 ViewSyncService。
func NewViewSyncService(
	store cache.Store,
	contents ContentsRepository,
	tx txmanager.Manager,
	policy cache.Policy,
	opts ViewSyncOptions,
	loc *time.Location,
	logger log.Logger,
) *ViewSyncService {
	if opts.Lookback < time.Minute {
		opts.Lookback = 10 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ViewSyncService{
		store:    store,
		contents: contents,
		tx:       tx,
		policy:   policy,
		opts:     opts,
		loc:      loc,
		log:      log.NewHelper(logger),
		metrics:  newViewMetrics(),
	}
}

// Options 返回生效的回刷参数。
func (s *ViewSyncService) Options() ViewSyncOptions {
	return s.opts
}

// ClosedMinutes 返回 now 之前、回看窗口内的分钟，按时间升序；当前分钟仍在写入，不包含在内。
func ClosedMinutes(now time.Time, lookback time.Duration, loc *time.Location) []time.Time {
	current := now.In(loc).Truncate(time.Minute)
	n := int(lookback / time.Minute)
	out := make([]time.Time, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, current.Add(-time.Duration(i)*time.Minute))
	}
	return out
}

// SyncClosedBuckets 回刷一轮。缓存不可用时中止本轮并返回错误。
func (s *ViewSyncService) SyncClosedBuckets(ctx context.Context, now time.Time) (SyncResult, error) {
	var result SyncResult
	for _, minute := range ClosedMinutes(now, s.opts.Lookback, s.loc) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		views, invalid, err := s.syncBucket(ctx, minute)
		result.Invalid += invalid
		switch {
		case errors.Is(err, cache.ErrLockTimeout):
			result.Contended++
			s.metrics.recordBucket(ctx, "contended", 0)
			continue
		case err != nil:
			s.metrics.recordBucket(ctx, "failure", 0)
			return result, fmt.Errorf("sync bucket %s: %w", cache.ViewCountKey(minute), err)
		}
		if views > 0 {
			result.Buckets++
			result.Views += views
			s.metrics.recordBucket(ctx, "success", views)
		}
	}
	if result.Buckets > 0 || result.Contended > 0 {
		s.log.WithContext(ctx).Infow("msg", "view buckets synced", "buckets", result.Buckets,
			"views", result.Views, "contended", result.Contended, "invalid", result.Invalid)
	}
	return result, nil
}

func (s *ViewSyncService) syncBucket(ctx context.Context, minute time.Time) (int64, int, error) {
	unlock, err := s.store.TryLock(ctx, cache.ViewCountSyncLockKey(minute), s.policy.LockWait, s.policy.LockLease)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.WithContext(ctx).Warnw("msg", "release sync lock failed", "minute", minute, "error", err)
		}
	}()

	key := cache.ViewCountKey(minute)
	raw, err := s.store.HGetAll(ctx, key)
	if err != nil {
		return 0, 0, err
	}
	if len(raw) == 0 {
		return 0, 0, nil
	}

	deltas, invalid := parseBucket(raw)
	for field, value := range invalid {
		s.log.WithContext(ctx).Warnw("msg", "invalid view bucket entry dropped", "key", key, "field", field, "value", value)
	}
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	// 固定加锁顺序，避免并发回刷之间死锁。
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var views int64
	err = s.tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		views = 0
		for _, id := range ids {
			if err := s.contents.AddTotalViews(txCtx, sess, id, deltas[id]); err != nil {
				if errors.Is(err, repositories.ErrContentNotFound) {
					s.log.WithContext(txCtx).Warnw("msg", "view bucket references unknown content", "key", key, "content_id", id)
					continue
				}
				return err
			}
			views += deltas[id]
		}
		return nil
	})
	if err != nil {
		return 0, len(invalid), fmt.Errorf("flush views: %w", err)
	}
	if err := s.store.Del(ctx, key); err != nil {
		s.log.WithContext(ctx).Errorw("msg", "delete synced bucket failed, views may be applied twice", "key", key, "error", err)
	}
	return views, len(invalid), nil
}

func parseBucket(raw map[string]string) (map[int64]int64, map[string]string) {
	deltas := make(map[int64]int64, len(raw))
	invalid := make(map[string]string)
	for field, value := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil || id <= 0 {
			invalid[field] = value
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			invalid[field] = value
			continue
		}
		if n > 0 {
			deltas[id] += n
		}
	}
	return deltas, invalid
}
