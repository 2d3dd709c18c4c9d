package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// SnapshotJobName is the name of the pipeline snapshot job
const SnapshotJobName = "pipeline_snapshot"

// DefaultSnapshotTimeout bounds a single snapshot computation. The report is
// an in-memory aggregation; anything near this long means the snapshot
// queries are in trouble.
const DefaultSnapshotTimeout = 2 * time.Minute

// PipelineReportService defines the interface for building pipeline reports.
// This interface allows the job to call the service without importing the
// service package directly.
type PipelineReportService interface {
	GetPipelineReport(ctx context.Context, period, pipelineID string) (*domain.AnalyticsReport, error)
}

// SnapshotJob periodically recomputes the all-pipelines report and logs its
// headline numbers, giving operators a daily trend line in the logs without
// anyone having to hit the API.
type SnapshotJob struct {
	reportService PipelineReportService
	period        string
	logger        *zap.Logger
	timeout       time.Duration
}

// NewSnapshotJob creates a new pipeline snapshot job
func NewSnapshotJob(reportService PipelineReportService, period string, logger *zap.Logger, timeout time.Duration) *SnapshotJob {
	if timeout <= 0 {
		timeout = DefaultSnapshotTimeout
	}
	return &SnapshotJob{
		reportService: reportService,
		period:        period,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes the snapshot job
func (j *SnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report, err := j.reportService.GetPipelineReport(ctx, j.period, domain.PipelineAll)
	if err != nil {
		j.logger.Error("pipeline snapshot failed",
			zap.String("period", j.period),
			zap.Error(err),
		)
		return
	}

	j.logger.Info("pipeline snapshot",
		zap.String("period", report.Period),
		zap.Int("total_deals", report.Summary.TotalDeals),
		zap.Float64("total_value", report.Summary.TotalValue),
		zap.Int("open_deals", report.Summary.OpenDeals),
		zap.Int("won_deals", report.Summary.WonDeals),
		zap.Int("lost_deals", report.Summary.LostDeals),
		zap.Int("win_rate", report.Summary.WinRate),
		zap.Int("stalled_deals", len(report.StalledDeals)),
	)
}
