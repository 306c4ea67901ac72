// Package configs 定义 YAML 配置文件对应的 Bootstrap 结构。
package configs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap 是配置文件的根节点。
type Bootstrap struct {
	Data          *Data          `json:"data" validate:"required"`
	Batch         *Batch         `json:"batch"`
	CachePolicy   *CachePolicy   `json:"cache_policy"`
	ViewSync      *ViewSync      `json:"view_sync"`
	Observability *Observability `json:"observability"`
}

// Data 聚合外部存储配置。
type Data struct {
	Postgres *PostgreSQL `json:"postgres" validate:"required"`
	Cache    *Cache      `json:"cache"`
}

// PostgreSQL 描述连接池与事务默认值。
type PostgreSQL struct {
	DSN                string       `json:"dsn" validate:"required"`
	MaxOpenConns       int          `json:"max_open_conns" validate:"gte=0"`
	MinOpenConns       int          `json:"min_open_conns" validate:"gte=0"`
	MaxConnLifetime    Duration     `json:"max_conn_lifetime"`
	MaxConnIdleTime    Duration     `json:"max_conn_idle_time"`
	HealthCheckPeriod  Duration     `json:"health_check_period"`
	Schema             string       `json:"schema"`
	EnablePreparedStmt *bool        `json:"enable_prepared_stmt"`
	EnableMetrics      *bool        `json:"enable_metrics"`
	Transaction        *Transaction `json:"transaction"`
}

// Transaction 指定事务默认隔离级别与超时策略。
type Transaction struct {
	DefaultIsolation string   `json:"default_isolation" validate:"omitempty,oneof=read_committed repeatable_read serializable"`
	DefaultTimeout   Duration `json:"default_timeout"`
	LockTimeout      Duration `json:"lock_timeout"`
	MaxRetries       int      `json:"max_retries" validate:"gte=0"`
	MetricsEnabled   *bool    `json:"metrics_enabled"`
}

// Cache 描述远程 KV 存储。
type Cache struct {
	Driver       string   `json:"driver" validate:"omitempty,oneof=redis memory"`
	Addr         string   `json:"addr"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	DB           int      `json:"db" validate:"gte=0"`
	DialTimeout  Duration `json:"dial_timeout"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	PoolSize     int      `json:"pool_size" validate:"gte=0"`
}

// Batch 描述日批处理的切分、分块与容错参数。
type Batch struct {
	Timezone       string          `json:"timezone"`
	ChunkSize      int             `json:"chunk_size" validate:"gte=0"`
	FetchSize      int             `json:"fetch_size" validate:"gte=0"`
	QueueCapacity  int             `json:"queue_capacity" validate:"gte=0"`
	PushTimeout    Duration        `json:"push_timeout"`
	SkipLimit      *int            `json:"skip_limit" validate:"omitempty,gte=0"`
	Retry          *Retry          `json:"retry"`
	PartitionTiers []PartitionTier `json:"partition_tiers" validate:"dive"`
	Statistics     *Phase          `json:"statistics"`
	Settlement     *Phase          `json:"settlement"`
}

// Retry 控制暂时性存储错误的整块重放。
type Retry struct {
	MaxAttempts    int      `json:"max_attempts" validate:"gte=0"`
	InitialBackoff Duration `json:"initial_backoff"`
	MaxBackoff     Duration `json:"max_backoff"`
}

// PartitionTier 表示 "总量小于 Below 时使用 Partitions 个分区"。
// Below 为 0 的档位视为兜底档。
type PartitionTier struct {
	Below      int64 `json:"below" validate:"gte=0"`
	Partitions int   `json:"partitions" validate:"gt=0"`
}

// Phase 为单个阶段的并发与策略配置。
type Phase struct {
	Workers  int    `json:"workers" validate:"gte=0"`
	GridSize int    `json:"grid_size" validate:"gte=0"`
	Strategy string `json:"strategy"`
}

// CachePolicy 描述观看计数缓存与分布式锁的时间参数。
type CachePolicy struct {
	ViewCountTTL Duration `json:"view_count_ttl"`
	AbuseTTL     Duration `json:"abuse_ttl"`
	DailySetTTL  Duration `json:"daily_set_ttl"`
	SnapshotTTL  Duration `json:"snapshot_ttl"`
	LockWait     Duration `json:"lock_wait"`
	LockLease    Duration `json:"lock_lease"`
}

// ViewSync 描述分钟桶回刷任务。
type ViewSync struct {
	Interval Duration `json:"interval"`
	Lookback Duration `json:"lookback"`
}

// Observability 聚合 tracing 与 metrics 配置。
type Observability struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *Tracing          `json:"tracing"`
	Metrics          *Metrics          `json:"metrics"`
}

// Tracing 描述 OpenTelemetry 追踪导出。
type Tracing struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio" validate:"gte=0,lte=1"`
	BatchTimeout       Duration          `json:"batch_timeout"`
	ExportTimeout      Duration          `json:"export_timeout"`
	MaxQueueSize       int               `json:"max_queue_size"`
	MaxExportBatchSize int               `json:"max_export_batch_size"`
	Required           bool              `json:"required"`
	Attributes         map[string]string `json:"attributes"`
}

// Metrics 描述 OpenTelemetry 指标导出。
type Metrics struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            Duration          `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
}

// Duration 支持 "5s"、"250ms" 形式的字符串，也接受纳秒整数。
type Duration time.Duration

// Std 返回 time.Duration。
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalJSON 实现 json.Unmarshaler。
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(val))
	case string:
		if val == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler。
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
