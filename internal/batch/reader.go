package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// ErrQueuePushTimeout 表示消费端持续未取走数据，生产端在 push 超时后放弃。
var ErrQueuePushTimeout = errors.New("batch: queue push timeout")

// ReaderConfig 配置 BackpressureReader。
type ReaderConfig struct {
	// Cursor 为初始游标，通常是 partition.Start-1 或 checkpoint 中的 last_committed_id。
	Cursor int64
	// End 为分区上界（含）。
	End           int64
	FetchSize     int
	QueueCapacity int
	PushTimeout   time.Duration
}

// BackpressureReader 在独立 goroutine 中按键集游标批量拉取，经有界队列交给消费端。
//
// 每次拉取 min(End-cursor, FetchSize) 条；键大于 End 的记录丢弃并记录日志。
// 队列满时 push 最多等待 PushTimeout，超时后以 ErrQueuePushTimeout 结束。
type BackpressureReader[T any] struct {
	fetch  FetchFunc[T]
	key    KeyFunc[T]
	cfg    ReaderConfig
	log    *log.Helper
	queue  chan T
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewBackpressureReader 构造 reader 并启动生产端。
func NewBackpressureReader[T any](ctx context.Context, fetch FetchFunc[T], key KeyFunc[T], cfg ReaderConfig, logger log.Logger) *BackpressureReader[T] {
	if cfg.FetchSize <= 0 {
		cfg.FetchSize = 1
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 1
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = time.Second
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &BackpressureReader[T]{
		fetch:  fetch,
		key:    key,
		cfg:    cfg,
		log:    log.NewHelper(logger),
		queue:  make(chan T, cfg.QueueCapacity),
		cancel: cancel,
	}
	r.wg.Add(1)
	go r.produce(runCtx)
	return r
}

func (r *BackpressureReader[T]) produce(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.queue)

	cursor := r.cfg.Cursor
	timer := time.NewTimer(r.cfg.PushTimeout)
	defer timer.Stop()

	for cursor < r.cfg.End {
		limit := int64(r.cfg.FetchSize)
		if remaining := r.cfg.End - cursor; remaining < limit {
			limit = remaining
		}
		items, err := r.fetch(ctx, cursor, int(limit))
		if err != nil {
			r.fail(fmt.Errorf("fetch after %d: %w", cursor, err))
			return
		}
		if len(items) == 0 {
			return
		}
		for _, item := range items {
			k := r.key(item)
			if k > cursor {
				cursor = k
			}
			if k > r.cfg.End {
				r.log.Warnw("msg", "drop unit beyond partition end", "key", k, "end", r.cfg.End)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(r.cfg.PushTimeout)
			select {
			case r.queue <- item:
			case <-timer.C:
				r.fail(fmt.Errorf("%w: key=%d after %s", ErrQueuePushTimeout, k, r.cfg.PushTimeout))
				return
			case <-ctx.Done():
				r.fail(ctx.Err())
				return
			}
		}
	}
}

func (r *BackpressureReader[T]) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// Err 返回生产端的终止错误。
func (r *BackpressureReader[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Next 从队列取至多 max 条，队列关闭且为空时返回空切片。
// 生产端失败时返回其错误，已缓冲但未取走的记录一并丢弃。
func (r *BackpressureReader[T]) Next(ctx context.Context, max int) ([]T, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		return nil, nil
	}
	out := make([]T, 0, min(max, r.cfg.QueueCapacity))
	for len(out) < max {
		select {
		case item, ok := <-r.queue:
			if !ok {
				if err := r.Err(); err != nil {
					return nil, err
				}
				return out, nil
			}
			out = append(out, item)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// Close 停止生产端并等待其退出。
func (r *BackpressureReader[T]) Close() {
	r.cancel()
	for range r.queue {
	}
	r.wg.Wait()
}
