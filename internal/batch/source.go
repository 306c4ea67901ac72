package batch

import (
	"context"
)

// FetchFunc 以键集游标读取：返回键严格大于 cursor 的至多 limit 条记录，按键升序。
type FetchFunc[T any] func(ctx context.Context, cursor int64, limit int) ([]T, error)

// KeyFunc 返回记录的游标键。
type KeyFunc[T any] func(T) int64

// Source 为分区循环提供有序记录流。Next 返回空切片表示流结束。
type Source[T any] interface {
	Next(ctx context.Context, max int) ([]T, error)
	Close()
}

// KeysetSource 是同步的键集分页源，每次 Next 恰好发起一次查询。
type KeysetSource[T any] struct {
	fetch  FetchFunc[T]
	key    KeyFunc[T]
	cursor int64
	done   bool
}

// NewKeysetSource 从 cursor 之后开始读取。
func NewKeysetSource[T any](fetch FetchFunc[T], key KeyFunc[T], cursor int64) *KeysetSource[T] {
	return &KeysetSource[T]{fetch: fetch, key: key, cursor: cursor}
}

// Next 实现 Source。
func (s *KeysetSource[T]) Next(ctx context.Context, max int) ([]T, error) {
	if s.done || max <= 0 {
		return nil, nil
	}
	items, err := s.fetch(ctx, s.cursor, max)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.done = true
		return nil, nil
	}
	s.cursor = s.key(items[len(items)-1])
	return items, nil
}

// Close 实现 Source。
func (s *KeysetSource[T]) Close() {}
