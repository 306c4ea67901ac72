package dailybatch

import (
	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	configloader "github.com/bionicotaku/lingo-services-settlement/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

// ProvideRunner 按配置的策略装配两个阶段并返回 Runner。未知策略为配置错误。
func ProvideRunner(
	cfg configloader.BatchConfig,
	orch *batch.Orchestrator,
	runs batch.RunStore,
	events *repositories.WatchEventsRepository,
	watched *repositories.DailyWatchedContentRepository,
	statistics *repositories.ContentStatisticsRepository,
	settlements *repositories.SettlementsRepository,
	rollup *services.RollupAggregator,
	fanout *services.FanoutAggregator,
	tiered *services.TieredCalculator,
	flat *services.FlatCalculator,
	store cache.Store,
	policy cache.Policy,
	logger log.Logger,
) (*Runner, error) {
	opts := orch.Options()

	statsPartitioner := batch.NewPartitioner(NewStatisticsRange(store, watched, logger), opts.Tiers)
	statsOpts := batch.PhaseOptions{Workers: cfg.Statistics.Workers, GridSize: cfg.Statistics.GridSize}
	var statsPhase batch.PhaseRunner
	switch cfg.Statistics.Strategy {
	case services.StrategyRollup, "":
		reader := batch.ReaderConfig{FetchSize: opts.FetchSize, QueueCapacity: opts.QueueCapacity, PushTimeout: opts.PushTimeout}
		step := NewRollupStep(events, rollup, statistics, store, policy, reader, logger)
		statsPhase = batch.NewPhase[po.ViewAggregate, po.ContentStatistics](po.PhaseStatistics, orch, statsPartitioner, step, statsOpts)
	case services.StrategyFanout:
		step := NewFanoutStep(events, fanout, statistics)
		statsPhase = batch.NewPhase[*po.WatchEvent, po.ContentStatistics](po.PhaseStatistics, orch, statsPartitioner, step, statsOpts)
	default:
		return nil, faults.Configuration("unknown statistics strategy %q", cfg.Statistics.Strategy)
	}

	var calculator services.SettlementCalculator
	switch cfg.Settlement.Strategy {
	case services.StrategyTiered, "":
		calculator = tiered
	case services.StrategyFlat:
		calculator = flat
	default:
		return nil, faults.Configuration("unknown settlement strategy %q", cfg.Settlement.Strategy)
	}
	settlePartitioner := batch.NewPartitioner(SettlementRange(statistics), opts.Tiers)
	settleOpts := batch.PhaseOptions{Workers: cfg.Settlement.Workers, GridSize: cfg.Settlement.GridSize}
	settlePhase := batch.NewPhase[po.DailyStatisticsRow, po.Settlement](po.PhaseSettlement, orch, settlePartitioner,
		NewSettlementStep(statistics, calculator, settlements), settleOpts)

	log.NewHelper(logger).Infow("msg", "daily batch assembled",
		"statistics_strategy", cfg.Statistics.Strategy, "settlement_strategy", calculator.Strategy(),
		"statistics_workers", statsOpts.Workers, "settlement_workers", settleOpts.Workers,
		"chunk_size", opts.ChunkSize)

	return NewRunner(batch.NewSequencer(statsPhase, settlePhase, runs, logger), logger), nil
}
