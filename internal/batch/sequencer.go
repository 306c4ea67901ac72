package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/faults"
	"github.com/bionicotaku/lingo-services-settlement/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RunStore 持久化运行记录。
type RunStore interface {
	Start(ctx context.Context, runToken uuid.UUID, date time.Time) error
	Finish(ctx context.Context, run po.BatchRun) error
}

// RunReport 是一次日批运行的终态报告。
type RunReport struct {
	RunToken   uuid.UUID
	TargetDate time.Time
	Status     po.RunStatus
	Statistics PhaseReport
	Settlement PhaseReport
	Err        error
}

// LogFields 返回结构化日志字段。
func (r RunReport) LogFields() []any {
	statsRead, statsWritten, statsSkipped := r.Statistics.Totals()
	settleRead, settleWritten, settleSkipped := r.Settlement.Totals()
	fields := []any{
		"msg", "daily batch finished",
		"run_token", r.RunToken.String(),
		"date", r.TargetDate.Format(time.DateOnly),
		"status", r.Status,
		"statistics_status", r.Statistics.Status,
		"statistics_rows", fmt.Sprintf("%d/%d/%d", statsRead, statsWritten, statsSkipped),
		"settlement_status", r.Settlement.Status,
		"settlement_rows", fmt.Sprintf("%d/%d/%d", settleRead, settleWritten, settleSkipped),
	}
	if r.Err != nil {
		fields = append(fields, "error_class", faults.Reason(r.Err), "error", r.Err)
	}
	return fields
}

// Sequencer 先跑完统计阶段的全部分区，再启动结算阶段。统计失败时结算标记为 SKIPPED。
type Sequencer struct {
	statistics PhaseRunner
	settlement PhaseRunner
	runs       RunStore
	log        *log.Helper
}

// NewSequencer 构造 Sequencer。runs 为 nil 时不持久化运行记录。
func NewSequencer(statistics, settlement PhaseRunner, runs RunStore, logger log.Logger) *Sequencer {
	return &Sequencer{statistics: statistics, settlement: settlement, runs: runs, log: log.NewHelper(logger)}
}

// Run 执行一次完整运行并返回终态报告。
func (s *Sequencer) Run(ctx context.Context, run RunContext) RunReport {
	report := RunReport{RunToken: run.RunToken, TargetDate: run.TargetDate, Status: po.StatusRunning}
	if s.runs != nil {
		if err := s.runs.Start(ctx, run.RunToken, run.TargetDate); err != nil {
			report.Status = po.StatusFailed
			report.Err = fmt.Errorf("start batch run: %w", err)
			report.Statistics = PhaseReport{Phase: po.PhaseStatistics, Status: po.StatusSkipped}
			report.Settlement = PhaseReport{Phase: po.PhaseSettlement, Status: po.StatusSkipped}
			return report
		}
	}

	report.Statistics = s.statistics.Run(ctx, run)
	if report.Statistics.Status != po.StatusCompleted {
		report.Settlement = PhaseReport{Phase: po.PhaseSettlement, Status: po.StatusSkipped}
		report.Status = po.StatusFailed
		report.Err = report.Statistics.Err
		s.log.Warnw("msg", "statistics phase failed, settlement skipped", "run_token", run.RunToken.String())
	} else {
		report.Settlement = s.settlement.Run(ctx, run)
		report.Status = report.Settlement.Status
		report.Err = report.Settlement.Err
	}

	s.finish(ctx, report)
	return report
}

func (s *Sequencer) finish(ctx context.Context, report RunReport) {
	if s.runs == nil {
		return
	}
	run := po.BatchRun{
		RunToken:         report.RunToken,
		TargetDate:       report.TargetDate,
		Status:           report.Status,
		StatisticsStatus: report.Statistics.Status,
		SettlementStatus: report.Settlement.Status,
	}
	if report.Err != nil {
		class := faults.Reason(report.Err)
		msg := truncate(faults.Describe(report.Err), 2000)
		run.ErrorClass = &class
		run.ErrorMessage = &msg
	}
	if err := s.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		s.log.Errorw("msg", "persist batch run failed", "run_token", report.RunToken.String(), "error", err)
	}
}

// ParseTargetDate 解析 yyyy-MM-dd；缺失或非法时返回配置错误。
func ParseTargetDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, faults.Configuration("target date is required")
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, faults.Configuration("invalid target date %q: %v", raw, err)
	}
	return date, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
