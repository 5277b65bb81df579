package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/shelfd/shelfd/internal/repo"
)

type ReportCleanupJob struct {
	reports *repo.ReportRepo
	maxAge  time.Duration
}

func NewReportCleanupJob(reports *repo.ReportRepo, maxAge time.Duration) *ReportCleanupJob {
	return &ReportCleanupJob{reports: reports, maxAge: maxAge}
}

func (j *ReportCleanupJob) Name() string {
	return "report_cleanup"
}

func (j *ReportCleanupJob) Run(ctx context.Context) error {
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge).Unix()
	deleted, err := j.reports.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("purged resolved reports", zap.Int64("count", deleted))
	}
	return nil
}
