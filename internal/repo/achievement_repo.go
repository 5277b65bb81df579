package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type AchievementRepo struct {
	db *sql.DB
}

func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

func (r *AchievementRepo) Create(ctx context.Context, item *model.Achievement) error {
	data := map[string]interface{}{
		"id":      item.ID,
		"user_id": item.UserID,
		"code":    item.Code,
		"ctime":   item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("achievements", []map[string]interface{}{data})
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

func (r *AchievementRepo) ListByUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	sqlStr := `
		SELECT id, user_id, code, ctime
		FROM achievements
		WHERE user_id = ?
		ORDER BY ctime ASC
	`
	args := []interface{}{userID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Achievement, 0)
	for rows.Next() {
		var item model.Achievement
		if err := rows.Scan(&item.ID, &item.UserID, &item.Code, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *AchievementRepo) Exists(ctx context.Context, userID, code string) (bool, error) {
	sqlStr := `SELECT COUNT(1) FROM achievements WHERE user_id = ? AND code = ?`
	args := []interface{}{userID, code}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
