// Package main 提供分钟计数桶回刷的独立进程入口。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/bionicotaku/lingo-services-settlement/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/viewsync"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2/log"

	_ "go.uber.org/automaxprocs" // 自动设置 GOMAXPROCS 为容器 CPU 配额
)

type viewSyncApp struct {
	Runner *viewsync.Runner
	Logger log.Logger
}

func newViewSyncApp(_ *obswire.Component, logger log.Logger, runner *viewsync.Runner) (*viewSyncApp, error) {
	if runner == nil {
		return nil, fmt.Errorf("view sync runner not initialized")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &viewSyncApp{Runner: runner, Logger: logger}, nil
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	onceFlag := flag.Bool("once", false, "sync closed buckets once and exit")
	flag.Parse()

	app, cleanup, err := wireViewSync(ctx, configloader.Params{ConfPath: *confFlag})
	if err != nil {
		panic(err)
	}
	defer cleanup()

	helper := log.NewHelper(app.Logger)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *onceFlag {
		result, err := app.Runner.RunOnce(runCtx)
		if err != nil {
			helper.Errorw("msg", "view sync failed", "error", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "synced %d buckets, %d views (contended %d, invalid %d)\n",
			result.Buckets, result.Views, result.Contended, result.Invalid)
		return
	}

	helper.Info("starting view sync task")
	if err := app.Runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		helper.Errorf("view sync runner stopped unexpectedly: %v", err)
		os.Exit(1)
	}
	helper.Info("view sync stopped")
}
