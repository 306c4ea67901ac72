// Package configloader 提供配置加载与归一化能力，供 Wire 装配使用。
package configloader

import "time"

// RuntimeConfig 聚合应用在运行期所需的配置片段。
type RuntimeConfig struct {
	Service       ServiceInfo
	Database      DatabaseConfig
	Cache         CacheConfig
	Batch         BatchConfig
	CachePolicy   CachePolicyConfig
	ViewSync      ViewSyncConfig
	Observability ObservabilityConfig
}

// ServiceInfo 描述服务标识与运行环境。
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// DatabaseConfig 包含 PostgreSQL 连接池及事务默认值。
type DatabaseConfig struct {
	DSN               string
	MaxOpenConns      int
	MinOpenConns      int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	Schema            string
	PreparedStmts     bool
	PoolMetrics       bool
	Transaction       TransactionConfig
}

// TransactionConfig 指定事务默认隔离级别与超时策略。
type TransactionConfig struct {
	DefaultIsolation string
	DefaultTimeout   time.Duration
	LockTimeout      time.Duration
	MaxRetries       int
	MetricsEnabled   bool
}

// CacheConfig 描述远程缓存连接。
type CacheConfig struct {
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

// BatchConfig 汇总批处理引擎参数。
type BatchConfig struct {
	Timezone      string
	Location      *time.Location
	ChunkSize     int
	FetchSize     int
	QueueCapacity int
	PushTimeout   time.Duration
	SkipLimit     int
	Retry         RetryConfig
	Tiers         []TierConfig
	Statistics    PhaseConfig
	Settlement    PhaseConfig
}

// RetryConfig 控制整块重放次数与退避。
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// TierConfig 为分区档位。Below 为 0 表示兜底。
type TierConfig struct {
	Below      int64
	Partitions int
}

// PhaseConfig 为单个阶段的配置。
type PhaseConfig struct {
	Workers  int
	GridSize int
	Strategy string
}

// CachePolicyConfig 描述缓存键 TTL 与锁参数。
type CachePolicyConfig struct {
	ViewCountTTL time.Duration
	AbuseTTL     time.Duration
	DailySetTTL  time.Duration
	SnapshotTTL  time.Duration
	LockWait     time.Duration
	LockLease    time.Duration
}

// ViewSyncConfig 描述分钟桶回刷节奏。
type ViewSyncConfig struct {
	Interval time.Duration
	Lookback time.Duration
}

// ObservabilityConfig 聚合 tracing 与 metrics 的配置。
type ObservabilityConfig struct {
	GlobalAttributes map[string]string
	Tracing          TracingConfig
	Metrics          MetricsConfig
}

// TracingConfig 描述 OpenTelemetry 追踪导出的行为。
type TracingConfig struct {
	Enabled            bool
	Exporter           string
	Endpoint           string
	Headers            map[string]string
	Insecure           bool
	SamplingRatio      float64
	BatchTimeout       time.Duration
	ExportTimeout      time.Duration
	MaxQueueSize       int
	MaxExportBatchSize int
	Required           bool
	Attributes         map[string]string
}

// MetricsConfig 描述 OpenTelemetry 指标导出的行为。
type MetricsConfig struct {
	Enabled             bool
	Exporter            string
	Endpoint            string
	Headers             map[string]string
	Insecure            bool
	Interval            time.Duration
	DisableRuntimeStats bool
	Required            bool
	ResourceAttributes  map[string]string
}
