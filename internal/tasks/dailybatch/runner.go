// Package dailybatch 装配日批任务：统计阶段（rollup / fan-out）与结算阶段（tiered / flat），
// 由 batch.Sequencer 顺序执行并持久化运行报告。
package dailybatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/batch"
	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RunParams 为一次运行的命令行输入。
type RunParams struct {
	// TargetDate 为 yyyy-MM-dd。
	TargetDate string
	// RunID 为空时生成新的运行令牌。
	RunID string
}

// Runner 执行一次日批运行。
type Runner struct {
	sequencer *batch.Sequencer
	log       *log.Helper
	metrics   *metrics
}

// NewRunner 构造 Runner。
func NewRunner(sequencer *batch.Sequencer, logger log.Logger) *Runner {
	return &Runner{sequencer: sequencer, log: log.NewHelper(logger), metrics: newMetrics()}
}

// Run 校验参数后执行统计与结算两个阶段。日期缺失或非法时在任何分区运行前返回配置错误。
// 运行未完成时同时返回报告与错误。
func (r *Runner) Run(ctx context.Context, params RunParams) (batch.RunReport, error) {
	date, err := batch.ParseTargetDate(params.TargetDate)
	if err != nil {
		return batch.RunReport{Status: po.StatusFailed, Err: err}, err
	}
	token, err := parseRunToken(params.RunID)
	if err != nil {
		return batch.RunReport{TargetDate: date, Status: po.StatusFailed, Err: err}, err
	}

	r.log.WithContext(ctx).Infow("msg", "daily batch starting", "date", date.Format(time.DateOnly), "run_token", token.String())
	started := time.Now()
	report := r.sequencer.Run(ctx, batch.RunContext{TargetDate: date, RunToken: token})
	r.metrics.recordRun(ctx, report.Status, time.Since(started))

	fields := report.LogFields()
	if report.Status != po.StatusCompleted {
		r.log.WithContext(ctx).Errorw(fields...)
		if report.Err != nil {
			return report, report.Err
		}
		return report, errors.New("daily batch did not complete")
	}
	r.log.WithContext(ctx).Infow(fields...)
	return report, nil
}

func parseRunToken(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.New(), nil
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, faults.Configuration("invalid run id %q: %v", raw, err)
	}
	return token, nil
}

// Summary 返回报告的一行摘要，供命令行输出。
func Summary(report batch.RunReport) string {
	read, written, skipped := report.Statistics.Totals()
	sRead, sWritten, sSkipped := report.Settlement.Totals()
	line := fmt.Sprintf("run %s %s: %s (statistics %s %d/%d/%d, settlement %s %d/%d/%d)",
		report.RunToken, report.TargetDate.Format(time.DateOnly), report.Status,
		report.Statistics.Status, read, written, skipped,
		report.Settlement.Status, sRead, sWritten, sSkipped)
	if report.Err != nil {
		line += " " + faults.Describe(report.Err)
	}
	return line
}

// 退出码遵循 sysexits：调度器对 EX_TEMPFAIL 重新投递，对 EX_CONFIG 告警。
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitTempFail = 75
	ExitConfig   = 78
)

// ExitCode 把运行错误映射为进程退出码。
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, faults.ErrConfiguration):
		return ExitConfig
	case errors.Is(err, faults.ErrTransientStorage), faults.IsTransient(err):
		return ExitTempFail
	default:
		return ExitFailure
	}
}
