package viewsync

import (
	"github.com/bionicotaku/lingo-services-settlement/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

// ProvideRunner 装配回刷 Runner。
func ProvideRunner(sync *services.ViewSyncService, logger log.Logger) *Runner {
	if sync == nil {
		return nil
	}
	return NewRunner(sync, logger)
}
