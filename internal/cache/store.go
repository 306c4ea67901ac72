// Package cache 定义远程 KV 与分布式锁能力，并提供 Redis 与进程内两种实现。
//
// 调用方只依赖 Store 接口；缓存不可用或锁等待超时由调用方按各自的降级策略处理。
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockTimeout 表示在等待时间内未获得锁。
	ErrLockTimeout = errors.New("cache: lock wait timeout")
	// ErrUnavailable 表示后端不可达或返回了非预期错误。
	ErrUnavailable = errors.New("cache: unavailable")
)

// Unlock 释放一把已持有的锁。租约已过期或被他人持有时静默返回 nil。
type Unlock func(ctx context.Context) error

// Store 是批处理与观看计数依赖的缓存能力。
//
// ttl 为 0 表示不修改过期时间；写操作在 ttl > 0 时刷新 key 的过期时间。
type Store interface {
	// TryLock 在 wait 内尝试获取锁，成功后租约在 lease 后自动过期。
	TryLock(ctx context.Context, key string, wait, lease time.Duration) (Unlock, error)

	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	HIncrBy(ctx context.Context, key, field string, delta int64, ttl time.Duration) (int64, error)
	HSet(ctx context.Context, key string, values map[string]string, ttl time.Duration) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// SAdd 返回 member 是否为新增。
	SAdd(ctx context.Context, key, member string, ttl time.Duration) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Config 描述缓存后端连接。
type Config struct {
	Driver       string
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// Policy 描述各类缓存键的 TTL 与锁参数。
type Policy struct {
	ViewCountTTL time.Duration
	AbuseTTL     time.Duration
	DailySetTTL  time.Duration
	SnapshotTTL  time.Duration
	LockWait     time.Duration
	LockLease    time.Duration
}

const (
	// DriverRedis 使用 Redis。
	DriverRedis = "redis"
	// DriverMemory 使用进程内实现，仅适用于单进程与测试。
	DriverMemory = "memory"
)

// lockPollInterval 是锁竞争时的重试间隔。
const lockPollInterval = 10 * time.Millisecond

func waitLock(ctx context.Context, deadline time.Time, try func() (bool, error)) error {
	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrLockTimeout
		}
		timer := time.NewTimer(min(remaining, lockPollInterval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
