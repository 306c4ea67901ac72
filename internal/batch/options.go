package batch

import "time"

// Options 汇总引擎参数。
type Options struct {
	ChunkSize     int
	FetchSize     int
	QueueCapacity int
	PushTimeout   time.Duration
	Faults        FaultPolicy
	Tiers         SizeTiers
	Location      *time.Location
}

// FaultPolicy 描述块级重试与记录级跳过的上限。
type FaultPolicy struct {
	// MaxAttempts 为一个块的最大执行次数（含首次）。
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// SkipLimit 为单个分区允许跳过的记录总数。
	SkipLimit int
}

// PhaseOptions 为单个阶段的并发度与切分粒度。
type PhaseOptions struct {
	Workers  int
	GridSize int
}

// DefaultOptions 返回测试与本地运行使用的缺省值。
func DefaultOptions() Options {
	return Options{
		ChunkSize:     500,
		FetchSize:     200,
		QueueCapacity: 400,
		PushTimeout:   10 * time.Second,
		Faults: FaultPolicy{
			MaxAttempts:    3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			SkipLimit:      10,
		},
		Tiers:    DefaultSizeTiers,
		Location: time.UTC,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.ChunkSize <= 0 {
		o.ChunkSize = def.ChunkSize
	}
	if o.FetchSize <= 0 {
		o.FetchSize = def.FetchSize
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = def.QueueCapacity
	}
	if o.PushTimeout <= 0 {
		o.PushTimeout = def.PushTimeout
	}
	if o.Faults.MaxAttempts <= 0 {
		o.Faults.MaxAttempts = def.Faults.MaxAttempts
	}
	if o.Faults.InitialBackoff <= 0 {
		o.Faults.InitialBackoff = def.Faults.InitialBackoff
	}
	if o.Faults.MaxBackoff <= 0 {
		o.Faults.MaxBackoff = def.Faults.MaxBackoff
	}
	if o.Faults.SkipLimit < 0 {
		o.Faults.SkipLimit = 0
	}
	if len(o.Tiers) == 0 {
		o.Tiers = def.Tiers
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}
