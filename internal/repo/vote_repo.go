package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) Create(ctx context.Context, vote *model.Vote) error {
	data := map[string]interface{}{
		"user_id":   vote.UserID,
		"source_id": vote.SourceID,
		"ctime":     vote.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("votes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *VoteRepo) Delete(ctx context.Context, userID, sourceID string) error {
	sqlStr, args, err := builder.BuildDelete("votes", map[string]interface{}{"user_id": userID, "source_id": sourceID})
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

func (r *VoteRepo) CountBySource(ctx context.Context, sourceID string) (int, error) {
	sqlStr := `SELECT COUNT(1) FROM votes WHERE source_id = ?`
	args := []interface{}{sourceID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VoteRepo) Exists(ctx context.Context, userID, sourceID string) (bool, error) {
	sqlStr := `SELECT COUNT(1) FROM votes WHERE user_id = ? AND source_id = ?`
	args := []interface{}{userID, sourceID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
