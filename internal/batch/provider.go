package batch

import (
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet 暴露批处理引擎的构造器与仓储绑定。
var ProviderSet = wire.NewSet(
	NewOrchestrator,
	wire.Bind(new(CheckpointStore), new(*repositories.PartitionCheckpointsRepository)),
	wire.Bind(new(RunStore), new(*repositories.BatchRunsRepository)),
)
