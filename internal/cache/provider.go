package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet 暴露缓存能力。
var ProviderSet = wire.NewSet(ProvideStore)

const pingTimeout = 2 * time.Second

// ProvideStore 按 driver 构造 Store。
//
// Redis 启动时 ping 失败只记录告警：调用方对缓存不可用有各自的降级路径，
// 不应因缓存故障阻止批处理启动。
func ProvideStore(cfg Config, logger log.Logger) (Store, func(), error) {
	helper := log.NewHelper(logger)
	switch cfg.Driver {
	case DriverMemory:
		helper.Infow("msg", "cache store ready", "driver", DriverMemory)
		return NewMemoryStore(), func() {}, nil
	case DriverRedis, "":
		store := NewRedisStore(NewRedisClient(cfg), logger)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			helper.Warnw("msg", "cache ping failed, continuing with degraded cache", "addr", cfg.Addr, "error", err)
		} else {
			helper.Infow("msg", "cache store ready", "driver", DriverRedis, "addr", cfg.Addr)
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				helper.Warnw("msg", "close cache store failed", "error", err)
			}
		}
		return store, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
