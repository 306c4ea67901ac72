// Package viewsync 周期性地把已关闭的分钟计数桶回刷到内容累计播放数。
package viewsync

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

// Runner 按固定间隔调用 ViewSyncService。单轮失败只记录日志，下一轮重试。
type Runner struct {
	sync     *services.ViewSyncService
	interval time.Duration
	log      *log.Helper
}

// NewRunner 构造 Runner，间隔取自服务生效的回刷参数。
func NewRunner(sync *services.ViewSyncService, logger log.Logger) *Runner {
	return &Runner{
		sync:     sync,
		interval: sync.Options().Interval,
		log:      log.NewHelper(logger),
	}
}

// RunOnce 回刷一轮。
func (r *Runner) RunOnce(ctx context.Context) (services.SyncResult, error) {
	return r.sync.SyncClosedBuckets(ctx, time.Now())
}

// Run 立即执行一轮，此后每个间隔执行一轮，直到 ctx 结束并返回 ctx.Err()。
func (r *Runner) Run(ctx context.Context) error {
	r.log.Infow("msg", "view sync runner started", "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.WithContext(ctx).Warnw("msg", "view sync round failed", "error", err)
		}
		select {
		case <-ctx.Done():
			r.log.Infow("msg", "view sync runner stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
