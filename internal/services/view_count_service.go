package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/cache"

	"github.com/go-kratos/kratos/v2/log"
)

// RecordViewInput 描述一次有效播放。
type RecordViewInput struct {
	ContentID int64
	MemberID  int64
	IP        string
	// At 为播放时间，零值取当前时间。
	At time.Time
}

// ViewOutcome 描述一次播放的计数结果。
type ViewOutcome struct {
	// Counted 表示已写入分钟计数桶。
	Counted bool
	// Abusing 表示被判定为刷量（含作者自看），未计数。
	Abusing  bool
	SelfView bool
	// FirstOfDay 表示该内容当日首次被观看，已登记到当日观看索引。
	FirstOfDay bool
}

// ViewCountService 维护分钟级观看计数桶、刷量标记与当日观看内容索引。
//
// 刷量检查与当日首看检查都在分布式锁内进行；锁等待超时或缓存不可用时按失败安全处理：
// 刷量检查视为"未刷量"，首看检查视为"已看过"。缓存错误不会返回给调用方。
//
// 该服务没有对应的 cmd 进程，由接入播放上报的宿主进程通过 ProviderSet 装配。
type ViewCountService struct {
	store    cache.Store
	contents ContentsRepository
	daily    DailyWatchedContentRepository
	policy   cache.Policy
	loc      *time.Location
	log      *log.Helper
	metrics  *viewMetrics
	now      func() time.Time
}

// NewViewCountService 构造 ViewCountService。
func NewViewCountService(
	store cache.Store,
	contents ContentsRepository,
	daily DailyWatchedContentRepository,
	policy cache.Policy,
	loc *time.Location,
	logger log.Logger,
) *ViewCountService {
	if loc == nil {
		loc = time.UTC
	}
	return &ViewCountService{
		store:    store,
		contents: contents,
		daily:    daily,
		policy:   policy,
		loc:      loc,
		log:      log.NewHelper(logger),
		metrics:  newViewMetrics(),
		now:      time.Now,
	}
}

// RecordView 记录一次播放。只有读取内容信息或写入当日观看索引失败时返回错误。
func (s *ViewCountService) RecordView(ctx context.Context, input RecordViewInput) (ViewOutcome, error) {
	if input.ContentID <= 0 || input.MemberID <= 0 {
		return ViewOutcome{}, fmt.Errorf("record view: content_id and member_id required")
	}
	at := input.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.loc)

	content, err := s.contents.Get(ctx, nil, input.ContentID)
	if err != nil {
		return ViewOutcome{}, fmt.Errorf("record view: %w", err)
	}
	if content.CreatorID == input.MemberID {
		s.metrics.recordView(ctx, "self_view")
		return ViewOutcome{Abusing: true, SelfView: true}, nil
	}
	if s.isAbusing(ctx, input) {
		s.metrics.recordView(ctx, "abusing")
		return ViewOutcome{Abusing: true}, nil
	}

	var outcome ViewOutcome
	field := strconv.FormatInt(input.ContentID, 10)
	if _, err := s.store.HIncrBy(ctx, cache.ViewCountKey(at), field, 1, s.policy.ViewCountTTL); err != nil {
		s.metrics.recordDegraded(ctx, "view_count", "unavailable")
		s.log.WithContext(ctx).Warnw("msg", "increment view bucket failed", "content_id", input.ContentID, "error", err)
	} else {
		outcome.Counted = true
	}

	first, err := s.markSeen(ctx, input.ContentID, DateOnly(at))
	if err != nil {
		return outcome, fmt.Errorf("record view: %w", err)
	}
	outcome.FirstOfDay = first
	s.metrics.recordView(ctx, "counted")
	return outcome, nil
}

// isAbusing 检查并写入 (内容, 观众, 来源) 的短期标记。
func (s *ViewCountService) isAbusing(ctx context.Context, input RecordViewInput) bool {
	unlock, err := s.store.TryLock(ctx, cache.AbuseLockKey(input.ContentID, input.MemberID, input.IP), s.policy.LockWait, s.policy.LockLease)
	if err != nil {
		s.degraded(ctx, "abuse", input.ContentID, err)
		return false
	}
	defer s.release(ctx, unlock)

	key := cache.AbuseKey(input.ContentID, input.MemberID, input.IP)
	_, present, err := s.store.Get(ctx, key)
	if err != nil {
		s.degraded(ctx, "abuse", input.ContentID, err)
		return false
	}
	if present {
		return true
	}
	if err := s.store.Set(ctx, key, "1", s.policy.AbuseTTL); err != nil {
		s.degraded(ctx, "abuse", input.ContentID, err)
	}
	return false
}

// markSeen 判定当日首看并登记。锁等待超时视为已看过；缓存不可用时直接写入持久索引，
// 该写入是幂等的。
func (s *ViewCountService) markSeen(ctx context.Context, contentID int64, date time.Time) (bool, error) {
	unlock, err := s.store.TryLock(ctx, cache.DailyViewedContentLockKey(date, contentID), s.policy.LockWait, s.policy.LockLease)
	if err != nil {
		s.degraded(ctx, "daily_seen", contentID, err)
		if errors.Is(err, cache.ErrLockTimeout) || ctx.Err() != nil {
			return false, nil
		}
		return s.recordDaily(ctx, contentID, date)
	}
	defer s.release(ctx, unlock)

	added, err := s.store.SAdd(ctx, cache.DailyViewedContentKey(date), strconv.FormatInt(contentID, 10), s.policy.DailySetTTL)
	if err != nil {
		s.degraded(ctx, "daily_seen", contentID, err)
		return s.recordDaily(ctx, contentID, date)
	}
	if !added {
		return false, nil
	}
	return s.recordDaily(ctx, contentID, date)
}

func (s *ViewCountService) recordDaily(ctx context.Context, contentID int64, date time.Time) (bool, error) {
	created, err := s.daily.Record(ctx, nil, contentID, date)
	if err != nil {
		return false, fmt.Errorf("record daily watched content: %w", err)
	}
	return created, nil
}

func (s *ViewCountService) degraded(ctx context.Context, check string, contentID int64, err error) {
	reason := "unavailable"
	if errors.Is(err, cache.ErrLockTimeout) {
		reason = "lock_timeout"
	}
	s.metrics.recordDegraded(ctx, check, reason)
	s.log.WithContext(ctx).Warnw("msg", "cache check degraded to fail-safe default",
		"check", check, "content_id", contentID, "reason", reason, "error", err)
}

func (s *ViewCountService) release(ctx context.Context, unlock cache.Unlock) {
	if err := unlock(context.WithoutCancel(ctx)); err != nil {
		s.log.WithContext(ctx).Warnw("msg", "release lock failed", "error", err)
	}
}
