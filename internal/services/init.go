// Package services 包含统计聚合、结算计算与观看计数的业务逻辑。
// 该层只依赖 Repository 接口与缓存能力，不感知批处理调度细节。
//
// ViewCountService 是观看事件写入侧的库级入口，由外部的播放上报链路嵌入调用；
// 本仓库不提供承载它的进程（上报接口不在本服务范围内），cmd 下的任务只消费它写下的
// 计数桶与当日观看索引：viewsync 回写累计播放数，dailybatch 读取当日内容集合。
package services

import "github.com/google/wire"

// ProviderSet 暴露 Services 层的构造函数供 Wire 依赖注入使用。
// Repository 接口到具体实现的绑定在 cmd 的 wire.go 中声明。
var ProviderSet = wire.NewSet(
	NewRollupAggregator,
	NewFanoutAggregator,
	NewRateResolver,
	NewTieredCalculator,
	NewFlatCalculator,
	NewViewCountService,
	NewViewSyncService,
)
