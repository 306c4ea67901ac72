//go:build wireinject
// +build wireinject

// Package main 为 viewsync 任务 CLI 提供 Wire 依赖注入定义。
package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	configloader "github.com/bionicotaku/lingo-services-settlement/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-settlement/internal/repositories"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/viewsync"

	"github.com/bionicotaku/lingo-utils/gclog"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

var viewSyncRepositorySet = wire.NewSet(
	repositories.NewContentsRepository,
	wire.Bind(new(services.ContentsRepository), new(*repositories.ContentsRepository)),
)

func wireViewSync(context.Context, configloader.Params) (*viewSyncApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		gclog.ProviderSet,
		obswire.ProviderSet,
		pgxpoolx.ProviderSet,
		txmanager.ProviderSet,
		cache.ProviderSet,
		viewSyncRepositorySet,
		services.NewViewSyncService,
		viewsync.ProvideRunner,
		newViewSyncApp,
	))
}
