package configloader

import (
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/configs"
)

const (
	defaultChunkSize     = 500
	defaultFetchSize     = 200
	defaultQueueCapacity = 400
	defaultPushTimeout   = 10 * time.Second
	defaultSkipLimit     = 10
	defaultMaxAttempts   = 3
	defaultBackoff       = 100 * time.Millisecond
	defaultMaxBackoff    = 2 * time.Second
	defaultWorkers       = 4
	defaultGridSize      = 8

	defaultViewCountTTL = 10 * time.Minute
	defaultAbuseTTL     = 30 * time.Second
	defaultDailySetTTL  = 48 * time.Hour
	defaultLockWait     = 200 * time.Millisecond
	defaultLockLease    = 2 * time.Second

	defaultSyncInterval = time.Minute
	defaultSyncLookback = 10 * time.Minute
)

// DefaultTiers 是缺省的分区档位：<10K→1, <100K→2, <1M→4, 其余→8。
var DefaultTiers = []TierConfig{
	{Below: 10_000, Partitions: 1},
	{Below: 100_000, Partitions: 2},
	{Below: 1_000_000, Partitions: 4},
	{Below: 0, Partitions: 8},
}

func fromBootstrap(b *configs.Bootstrap) RuntimeConfig {
	if b == nil {
		return RuntimeConfig{}
	}
	rc := RuntimeConfig{
		Batch:         batchFromBootstrap(b.Batch),
		CachePolicy:   cachePolicyFromBootstrap(b.CachePolicy),
		ViewSync:      viewSyncFromBootstrap(b.ViewSync),
		Observability: observabilityFromBootstrap(b.Observability),
	}
	if b.Data != nil {
		rc.Database = databaseFromBootstrap(b.Data.Postgres)
		rc.Cache = cacheFromBootstrap(b.Data.Cache)
	}
	return rc
}

func databaseFromBootstrap(pg *configs.PostgreSQL) DatabaseConfig {
	if pg == nil {
		return DatabaseConfig{}
	}
	cfg := DatabaseConfig{
		DSN:               pg.DSN,
		MaxOpenConns:      pg.MaxOpenConns,
		MinOpenConns:      pg.MinOpenConns,
		MaxConnLifetime:   pg.MaxConnLifetime.Std(),
		MaxConnIdleTime:   pg.MaxConnIdleTime.Std(),
		HealthCheckPeriod: pg.HealthCheckPeriod.Std(),
		Schema:            pg.Schema,
		PreparedStmts:     boolOr(pg.EnablePreparedStmt, false),
		PoolMetrics:       boolOr(pg.EnableMetrics, true),
	}
	if tx := pg.Transaction; tx != nil {
		cfg.Transaction = TransactionConfig{
			DefaultIsolation: tx.DefaultIsolation,
			DefaultTimeout:   tx.DefaultTimeout.Std(),
			LockTimeout:      tx.LockTimeout.Std(),
			MaxRetries:       tx.MaxRetries,
			MetricsEnabled:   boolOr(tx.MetricsEnabled, true),
		}
	}
	return cfg
}

func cacheFromBootstrap(c *configs.Cache) CacheConfig {
	if c == nil {
		return CacheConfig{}
	}
	return CacheConfig{
		Driver:       c.Driver,
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout.Std(),
		ReadTimeout:  c.ReadTimeout.Std(),
		WriteTimeout: c.WriteTimeout.Std(),
		PoolSize:     c.PoolSize,
	}
}

func batchFromBootstrap(b *configs.Batch) BatchConfig {
	cfg := BatchConfig{SkipLimit: -1}
	if b == nil {
		return cfg
	}
	cfg.Timezone = b.Timezone
	cfg.ChunkSize = b.ChunkSize
	cfg.FetchSize = b.FetchSize
	cfg.QueueCapacity = b.QueueCapacity
	cfg.PushTimeout = b.PushTimeout.Std()
	if b.SkipLimit != nil {
		cfg.SkipLimit = *b.SkipLimit
	}
	if r := b.Retry; r != nil {
		cfg.Retry = RetryConfig{
			MaxAttempts:    r.MaxAttempts,
			InitialBackoff: r.InitialBackoff.Std(),
			MaxBackoff:     r.MaxBackoff.Std(),
		}
	}
	for _, t := range b.PartitionTiers {
		cfg.Tiers = append(cfg.Tiers, TierConfig{Below: t.Below, Partitions: t.Partitions})
	}
	cfg.Statistics = phaseFromBootstrap(b.Statistics)
	cfg.Settlement = phaseFromBootstrap(b.Settlement)
	return cfg
}

func phaseFromBootstrap(p *configs.Phase) PhaseConfig {
	if p == nil {
		return PhaseConfig{}
	}
	return PhaseConfig{Workers: p.Workers, GridSize: p.GridSize, Strategy: p.Strategy}
}

func cachePolicyFromBootstrap(p *configs.CachePolicy) CachePolicyConfig {
	if p == nil {
		return CachePolicyConfig{}
	}
	return CachePolicyConfig{
		ViewCountTTL: p.ViewCountTTL.Std(),
		AbuseTTL:     p.AbuseTTL.Std(),
		DailySetTTL:  p.DailySetTTL.Std(),
		SnapshotTTL:  p.SnapshotTTL.Std(),
		LockWait:     p.LockWait.Std(),
		LockLease:    p.LockLease.Std(),
	}
}

func viewSyncFromBootstrap(v *configs.ViewSync) ViewSyncConfig {
	if v == nil {
		return ViewSyncConfig{}
	}
	return ViewSyncConfig{Interval: v.Interval.Std(), Lookback: v.Lookback.Std()}
}

func observabilityFromBootstrap(obs *configs.Observability) ObservabilityConfig {
	if obs == nil {
		return ObservabilityConfig{}
	}
	cfg := ObservabilityConfig{GlobalAttributes: mapCopy(obs.GlobalAttributes)}
	if t := obs.Tracing; t != nil {
		cfg.Tracing = TracingConfig{
			Enabled:            t.Enabled,
			Exporter:           t.Exporter,
			Endpoint:           t.Endpoint,
			Headers:            mapCopy(t.Headers),
			Insecure:           t.Insecure,
			SamplingRatio:      t.SamplingRatio,
			BatchTimeout:       t.BatchTimeout.Std(),
			ExportTimeout:      t.ExportTimeout.Std(),
			MaxQueueSize:       t.MaxQueueSize,
			MaxExportBatchSize: t.MaxExportBatchSize,
			Required:           t.Required,
			Attributes:         mapCopy(t.Attributes),
		}
	}
	if m := obs.Metrics; m != nil {
		cfg.Metrics = MetricsConfig{
			Enabled:             m.Enabled,
			Exporter:            m.Exporter,
			Endpoint:            m.Endpoint,
			Headers:             mapCopy(m.Headers),
			Insecure:            m.Insecure,
			Interval:            m.Interval.Std(),
			DisableRuntimeStats: m.DisableRuntimeStats,
			Required:            m.Required,
			ResourceAttributes:  mapCopy(m.ResourceAttributes),
		}
	}
	return cfg
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func mapCopy(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func firstNonZero(durations ...time.Duration) time.Duration {
	for _, d := range durations {
		if d > 0 {
			return d
		}
	}
	return 0
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func fillDefaults(cfg *RuntimeConfig) error {
	b := &cfg.Batch
	b.Timezone = firstNonEmpty(b.Timezone, "UTC")
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fmt.Errorf("batch.timezone %q: %w", b.Timezone, err)
	}
	b.Location = loc
	b.ChunkSize = intOr(b.ChunkSize, defaultChunkSize)
	b.FetchSize = intOr(b.FetchSize, defaultFetchSize)
	b.QueueCapacity = intOr(b.QueueCapacity, defaultQueueCapacity)
	b.PushTimeout = firstNonZero(b.PushTimeout, defaultPushTimeout)
	if b.SkipLimit < 0 {
		b.SkipLimit = defaultSkipLimit
	}
	b.Retry.MaxAttempts = intOr(b.Retry.MaxAttempts, defaultMaxAttempts)
	b.Retry.InitialBackoff = firstNonZero(b.Retry.InitialBackoff, defaultBackoff)
	b.Retry.MaxBackoff = firstNonZero(b.Retry.MaxBackoff, defaultMaxBackoff)
	if len(b.Tiers) == 0 {
		b.Tiers = append([]TierConfig(nil), DefaultTiers...)
	}
	if err := validateTiers(b.Tiers); err != nil {
		return err
	}
	b.Statistics.Workers = intOr(b.Statistics.Workers, defaultWorkers)
	b.Statistics.GridSize = intOr(b.Statistics.GridSize, defaultGridSize)
	b.Statistics.Strategy = firstNonEmpty(b.Statistics.Strategy, "rollup")
	b.Settlement.Workers = intOr(b.Settlement.Workers, defaultWorkers)
	b.Settlement.GridSize = intOr(b.Settlement.GridSize, defaultGridSize)
	b.Settlement.Strategy = firstNonEmpty(b.Settlement.Strategy, "tiered")
	switch b.Statistics.Strategy {
	case "rollup", "fanout":
	default:
		return fmt.Errorf("batch.statistics.strategy %q: want rollup or fanout", b.Statistics.Strategy)
	}
	switch b.Settlement.Strategy {
	case "tiered", "flat":
	default:
		return fmt.Errorf("batch.settlement.strategy %q: want tiered or flat", b.Settlement.Strategy)
	}

	p := &cfg.CachePolicy
	p.ViewCountTTL = firstNonZero(p.ViewCountTTL, defaultViewCountTTL)
	p.AbuseTTL = firstNonZero(p.AbuseTTL, defaultAbuseTTL)
	p.DailySetTTL = firstNonZero(p.DailySetTTL, defaultDailySetTTL)
	p.SnapshotTTL = firstNonZero(p.SnapshotTTL, p.DailySetTTL)
	p.LockWait = firstNonZero(p.LockWait, defaultLockWait)
	p.LockLease = firstNonZero(p.LockLease, defaultLockLease)
	if p.LockWait >= p.LockLease {
		return fmt.Errorf("cache_policy.lock_wait (%s) must be shorter than lock_lease (%s)", p.LockWait, p.LockLease)
	}

	cfg.Cache.Driver = firstNonEmpty(cfg.Cache.Driver, "redis")
	if cfg.Cache.Driver == "redis" && cfg.Cache.Addr == "" {
		cfg.Cache.Addr = "localhost:6379"
	}

	cfg.ViewSync.Interval = firstNonZero(cfg.ViewSync.Interval, defaultSyncInterval)
	cfg.ViewSync.Lookback = firstNonZero(cfg.ViewSync.Lookback, defaultSyncLookback)
	return nil
}

// validateTiers 要求档位按 Below 严格递增，兜底档（Below=0）只能出现在末尾。
func validateTiers(tiers []TierConfig) error {
	var prev int64
	for i, t := range tiers {
		if t.Partitions <= 0 {
			return fmt.Errorf("batch.partition_tiers[%d]: partitions must be positive", i)
		}
		if t.Below == 0 {
			if i != len(tiers)-1 {
				return fmt.Errorf("batch.partition_tiers[%d]: catch-all tier must be last", i)
			}
			continue
		}
		if t.Below <= prev {
			return fmt.Errorf("batch.partition_tiers[%d]: below %d not ascending", i, t.Below)
		}
		prev = t.Below
	}
	return nil
}
