package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memEntry struct {
	str     *string
	hash    map[string]string
	set     map[string]struct{}
	expires time.Time
}

func (e *memEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryStore 是进程内 Store，锁语义与 Redis 实现一致（等待 + 租约）。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	now     func() time.Time
}

// NewMemoryStore 构造空的进程内 Store。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memEntry), now: time.Now}
}

// lookup 返回未过期的条目；调用方需持有 mu。
func (s *MemoryStore) lookup(key string) *memEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *MemoryStore) touch(e *memEntry, ttl time.Duration) {
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
}

// TryLock 实现 Store。
func (s *MemoryStore) TryLock(ctx context.Context, key string, wait, lease time.Duration) (Unlock, error) {
	token := uuid.NewString()
	err := waitLock(ctx, time.Now().Add(wait), func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lookup(key) != nil {
			return false, nil
		}
		e := &memEntry{str: &token}
		s.touch(e, lease)
		s.entries[key] = e
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e := s.lookup(key); e != nil && e.str != nil && *e.str == token {
			delete(s.entries, key)
		}
		return nil
	}, nil
}

// Get 实现 Store。
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	if e == nil || e.str == nil {
		return "", false, nil
	}
	return *e.str, true, nil
}

// Set 实现 Store。
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &memEntry{str: &value}
	s.touch(e, ttl)
	s.entries[key] = e
	return nil
}

// IncrBy 实现 Store。
func (s *MemoryStore) IncrBy(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	var cur int64
	if e != nil && e.str != nil {
		v, err := strconv.ParseInt(*e.str, 10, 64)
		if err != nil {
			return 0, unavailable("incrby "+key, err)
		}
		cur = v
	}
	if e == nil {
		e = &memEntry{}
		s.entries[key] = e
	}
	next := strconv.FormatInt(cur+delta, 10)
	e.str = &next
	s.touch(e, ttl)
	return cur + delta, nil
}

func (s *MemoryStore) hashEntry(key string) *memEntry {
	e := s.lookup(key)
	if e == nil || e.hash == nil {
		e = &memEntry{hash: make(map[string]string)}
		s.entries[key] = e
	}
	return e
}

// HIncrBy 实现 Store。
func (s *MemoryStore) HIncrBy(_ context.Context, key, field string, delta int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.hashEntry(key)
	var cur int64
	if raw, ok := e.hash[field]; ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, unavailable("hincrby "+key, err)
		}
		cur = v
	}
	e.hash[field] = strconv.FormatInt(cur+delta, 10)
	s.touch(e, ttl)
	return cur + delta, nil
}

// HSet 实现 Store。
func (s *MemoryStore) HSet(_ context.Context, key string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.hashEntry(key)
	for k, v := range values {
		e.hash[k] = v
	}
	s.touch(e, ttl)
	return nil
}

// HGetAll 实现 Store。
func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	if e := s.lookup(key); e != nil {
		for k, v := range e.hash {
			out[k] = v
		}
	}
	return out, nil
}

// SAdd 实现 Store。
func (s *MemoryStore) SAdd(_ context.Context, key, member string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	if e == nil || e.set == nil {
		e = &memEntry{set: make(map[string]struct{})}
		s.entries[key] = e
	}
	_, exists := e.set[member]
	e.set[member] = struct{}{}
	s.touch(e, ttl)
	return !exists, nil
}

// SMembers 实现 Store，结果按字典序返回。
func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	if e == nil {
		return []string{}, nil
	}
	out := make([]string, 0, len(e.set))
	for m := range e.set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// Del 实现 Store。
func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// Close 实现 Store。
func (s *MemoryStore) Close() error { return nil }
