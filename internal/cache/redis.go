package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript 仅当锁仍由当前持有者持有时删除。
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore 基于 go-redis 实现 Store。
type RedisStore struct {
	client redis.UniversalClient
	log    *log.Helper
}

// NewRedisStore 用现有客户端构造 Store。
func NewRedisStore(client redis.UniversalClient, logger log.Logger) *RedisStore {
	return &RedisStore{client: client, log: log.NewHelper(logger)}
}

// NewRedisClient 按配置创建客户端。
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// TryLock 通过 SET NX PX 获取锁，释放时比较 token 后删除。
func (s *RedisStore) TryLock(ctx context.Context, key string, wait, lease time.Duration) (Unlock, error) {
	token := uuid.NewString()
	err := waitLock(ctx, time.Now().Add(wait), func() (bool, error) {
		ok, err := s.client.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			return false, unavailable("lock "+key, err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.log.Warnw("msg", "release lock failed", "key", key, "error", err)
			return unavailable("unlock "+key, err)
		}
		return nil
	}, nil
}

// Get 读取字符串值。
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get "+key, err)
	}
	return val, true, nil
}

// Set 写入字符串值。
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("set "+key, err)
	}
	return nil
}

// IncrBy 原子累加。
func (s *RedisStore) IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, key, delta)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, unavailable("incrby "+key, err)
	}
	return incr.Val(), nil
}

// HIncrBy 原子累加 hash 字段。
func (s *RedisStore) HIncrBy(ctx context.Context, key, field string, delta int64, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, field, delta)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, unavailable("hincrby "+key, err)
	}
	return incr.Val(), nil
}

// HSet 批量写入 hash 字段。
func (s *RedisStore) HSet(ctx context.Context, key string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, values)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("hset "+key, err)
	}
	return nil
}

// HGetAll 读取整个 hash，不存在时返回空 map。
func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	out, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, unavailable("hgetall "+key, err)
	}
	return out, nil
}

// SAdd 写入集合成员。
func (s *RedisStore) SAdd(ctx context.Context, key, member string, ttl time.Duration) (bool, error) {
	pipe := s.client.TxPipeline()
	added := pipe.SAdd(ctx, key, member)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, unavailable("sadd "+key, err)
	}
	return added.Val() > 0, nil
}

// SMembers 读取集合全部成员。
func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	out, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, unavailable("smembers "+key, err)
	}
	return out, nil
}

// Del 删除 key。
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable("del", err)
	}
	return nil
}

// Ping 检查连通性。
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close 关闭客户端。
func (s *RedisStore) Close() error {
	return s.client.Close()
}
