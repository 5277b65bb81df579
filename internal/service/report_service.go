package service

import (
	"context"
	"strings"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/pkg/timeutil"
	"github.com/shelfd/shelfd/internal/repo"
)

type ReportService struct {
	reports *repo.ReportRepo
	sources *repo.SourceRepo
}

func NewReportService(reports *repo.ReportRepo, sources *repo.SourceRepo) *ReportService {
	return &ReportService{reports: reports, sources: sources}
}

func (s *ReportService) Create(ctx context.Context, reporterID, sourceID, reason string) (*model.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErr.ErrInvalid
	}
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src.State != model.SourceStateActive {
		return nil, appErr.ErrNotFound
	}
	now := timeutil.NowUnix()
	report := &model.Report{
		ID:         newID(),
		SourceID:   sourceID,
		ReporterID: reporterID,
		Reason:     strings.TrimSpace(reason),
		State:      model.ReportStateOpen,
		Ctime:      now,
		Mtime:      now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListOwn(ctx context.Context, reporterID string) ([]model.Report, error) {
	return s.reports.ListByReporter(ctx, reporterID)
}

func (s *ReportService) ListOpen(ctx context.Context) ([]model.Report, error) {
	return s.reports.ListByState(ctx, model.ReportStateOpen)
}

// Resolve closes a report; removeSource additionally takes the reported
// source off the public surface, after which clones see it as gone.
func (s *ReportService) Resolve(ctx context.Context, reportID string, removeSource bool) error {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.State != model.ReportStateOpen {
		return appErr.ErrConflict
	}
	now := timeutil.NowUnix()
	if err := s.reports.UpdateState(ctx, reportID, model.ReportStateResolved, now); err != nil {
		return err
	}
	if removeSource {
		if err := s.sources.UpdateState(ctx, report.SourceID, model.SourceStateRemoved, now); err != nil && err != appErr.ErrNotFound {
			return err
		}
	}
	return nil
}
