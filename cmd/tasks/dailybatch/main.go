// Package main 提供日批任务的命令行入口：对指定日期执行统计与结算两个阶段后退出。
//
// 用法：dailybatch -conf configs/config.yaml -date 2025-03-14 [-run-id <uuid>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/bionicotaku/lingo-services-settlement/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/dailybatch"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2/log"

	_ "go.uber.org/automaxprocs" // 自动设置 GOMAXPROCS 为容器 CPU 配额
)

type dailyBatchApp struct {
	Runner *dailybatch.Runner
	Logger log.Logger
}

func newDailyBatchApp(_ *obswire.Component, logger log.Logger, runner *dailybatch.Runner) (*dailyBatchApp, error) {
	if runner == nil {
		return nil, fmt.Errorf("daily batch runner not initialized")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &dailyBatchApp{Runner: runner, Logger: logger}, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	dateFlag := flag.String("date", "", "target date in yyyy-MM-dd, eg: -date 2025-03-14")
	runIDFlag := flag.String("run-id", "", "optional run token (uuid); generated when empty")
	flag.Parse()

	app, cleanup, err := wireDailyBatch(ctx, configloader.Params{ConfPath: *confFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init daily batch: %v\n", err)
		return 1
	}
	defer cleanup()

	helper := log.NewHelper(app.Logger)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := app.Runner.Run(runCtx, dailybatch.RunParams{TargetDate: *dateFlag, RunID: *runIDFlag})
	if err != nil {
		helper.Errorw("msg", "daily batch failed", "error", err)
		if !report.TargetDate.IsZero() {
			fmt.Fprintln(os.Stdout, dailybatch.Summary(report))
		}
		return dailybatch.ExitCode(err)
	}
	fmt.Fprintln(os.Stdout, dailybatch.Summary(report))
	return dailybatch.ExitOK
}
