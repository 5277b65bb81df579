package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

var reportFields = []string{"id", "source_id", "reporter_id", "reason", "state", "ctime", "mtime"}

func (r *ReportRepo) Create(ctx context.Context, report *model.Report) error {
	data := map[string]interface{}{
		"id":          report.ID,
		"source_id":   report.SourceID,
		"reporter_id": report.ReporterID,
		"reason":      report.Reason,
		"state":       report.State,
		"ctime":       report.Ctime,
		"mtime":       report.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("reports", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ReportRepo) GetByID(ctx context.Context, reportID string) (*model.Report, error) {
	sqlStr, args, err := builder.BuildSelect("reports", map[string]interface{}{"id": reportID}, reportFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanReport(rows)
}

func (r *ReportRepo) UpdateState(ctx context.Context, reportID string, state int, mtime int64) error {
	sqlStr, args, err := builder.BuildUpdate("reports",
		map[string]interface{}{"id": reportID},
		map[string]interface{}{"state": state, "mtime": mtime})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *ReportRepo) ListByReporter(ctx context.Context, reporterID string) ([]model.Report, error) {
	sqlStr := `
		SELECT id, source_id, reporter_id, reason, state, ctime, mtime
		FROM reports
		WHERE reporter_id = ?
		ORDER BY ctime DESC
	`
	args := []interface{}{reporterID}
	return r.list(ctx, sqlStr, args)
}

func (r *ReportRepo) ListByState(ctx context.Context, state int) ([]model.Report, error) {
	sqlStr := `
		SELECT id, source_id, reporter_id, reason, state, ctime, mtime
		FROM reports
		WHERE state = ?
		ORDER BY ctime ASC
	`
	args := []interface{}{state}
	return r.list(ctx, sqlStr, args)
}

func (r *ReportRepo) DeleteResolvedBefore(ctx context.Context, cutoff int64) (int64, error) {
	sqlStr := `DELETE FROM reports WHERE state = ? AND mtime < ?`
	args := []interface{}{model.ReportStateResolved, cutoff}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReportRepo) list(ctx context.Context, sqlStr string, args []interface{}) ([]model.Report, error) {
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *report)
	}
	return items, rows.Err()
}

type reportScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s reportScanner) (*model.Report, error) {
	var report model.Report
	if err := s.Scan(&report.ID, &report.SourceID, &report.ReporterID, &report.Reason, &report.State, &report.Ctime, &report.Mtime); err != nil {
		return nil, err
	}
	return &report, nil
}
