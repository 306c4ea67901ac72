//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

//go:generate go run github.com/google/wire/cmd/wire

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	configloader "github.com/bionicotaku/lingo-services-settlement/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/dailybatch"

	"github.com/bionicotaku/lingo-utils/gclog"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// wireDailyBatch 装配日批任务。
//
// 依赖注入顺序:
//  1. 配置加载: configloader.ProviderSet 解析配置并派生组件配置
//  2. 基础设施: gclog → observability → pgxpoolx → txmanager → cache
//  3. 数据与业务: repositories → services（仓储接口绑定见下）
//  4. 引擎: batch.ProviderSet 提供 Orchestrator 与 checkpoint / 运行记录存储
//  5. 任务: dailybatch.ProvideRunner 按配置策略组装两个阶段
func wireDailyBatch(context.Context, configloader.Params) (*dailyBatchApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet, // 配置加载与解析
		gclog.ProviderSet,        // 结构化日志
		obswire.ProviderSet,      // OpenTelemetry 追踪和指标
		pgxpoolx.ProviderSet,     // PostgreSQL 连接池
		txmanager.ProviderSet,    // 事务管理器
		cache.ProviderSet,        // Redis / 进程内缓存
		repositories.ProviderSet, // 数据访问层
		wire.Bind(new(services.ContentsRepository), new(*repositories.ContentsRepository)),
		wire.Bind(new(services.StatisticsRepository), new(*repositories.ContentStatisticsRepository)),
		wire.Bind(new(services.SettlementRatesRepository), new(*repositories.SettlementRatesRepository)),
		wire.Bind(new(services.SettlementsRepository), new(*repositories.SettlementsRepository)),
		services.ProviderSet, // 聚合与结算策略
		batch.ProviderSet,    // 分区批处理引擎
		dailybatch.ProvideRunner,
		newDailyBatchApp,
	))
}

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 依赖注入详细文档
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 1. 配置加载层 (configloader.ProviderSet)                                │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - configloader.LoadRuntimeConfig(configloader.Params) (configloader.RuntimeConfig, error)
//       解析配置文件与 .env，执行校验并填充缺省值。
//
//   - configloader.ProvideBatchConfig(RuntimeConfig) configloader.BatchConfig
//   - configloader.ProvideLocation(BatchConfig) *time.Location
//   - configloader.ProvideBatchOptions(BatchConfig, *time.Location) batch.Options
//       块大小、拉取与队列参数、容错上限、分区档位与业务时区。
//
//   - configloader.ProvideCacheConfig(RuntimeConfig) cache.Config
//   - configloader.ProvideCachePolicy(RuntimeConfig) cache.Policy
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 2. 基础设施 (gclog / observability / pgxpoolx / txmanager / cache)      │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - gclog.NewComponent(gclog.Config) (*gclog.Component, func(), error)
//   - obswire.NewComponent(context.Context, ObservabilityConfig, ServiceInfo, log.Logger)
//                            (*obswire.Component, func(), error)
//   - pgxpoolx.ProvideComponent(context.Context, pgxpoolx.Config, log.Logger)
//                            (*pgxpoolx.Component, func(), error)
//   - txmanager.NewComponent(txmanager.Config, *pgxpool.Pool, log.Logger)
//                            (*txmanager.Component, func(), error)
//   - cache.ProvideStore(cache.Config, log.Logger) (cache.Store, func(), error)
//       Redis ping 失败只告警，统计阶段的区间解析会回退到数据库。
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 3. 任务层                                                               │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - batch.NewOrchestrator(txmanager.Manager, batch.CheckpointStore, batch.Options, log.Logger)
//   - dailybatch.ProvideRunner(BatchConfig, *batch.Orchestrator, batch.RunStore, ...)
//                               (*dailybatch.Runner, error)
//       statistics.strategy 选择 rollup / fanout，settlement.strategy 选择 tiered / flat。
