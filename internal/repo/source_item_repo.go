package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type SourceItemRepo struct {
	db *sql.DB
}

func NewSourceItemRepo(db *sql.DB) *SourceItemRepo {
	return &SourceItemRepo{db: db}
}

func (r *SourceItemRepo) Create(ctx context.Context, item *model.SourceItem) error {
	data := map[string]interface{}{
		"id":        item.ID,
		"source_id": item.SourceID,
		"name":      item.Name,
		"number":    nullableInt(item.Number),
		"image":     item.Image,
		"position":  item.Position,
		"ctime":     item.Ctime,
		"mtime":     item.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("source_items", []map[string]interface{}{data})
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

func (r *SourceItemRepo) DeleteBySource(ctx context.Context, sourceID string) error {
	sqlStr, args, err := builder.BuildDelete("source_items", map[string]interface{}{"source_id": sourceID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SourceItemRepo) ListBySource(ctx context.Context, sourceID string) ([]model.SourceItem, error) {
	sqlStr := `
		SELECT id, source_id, name, number, image, position, ctime, mtime
		FROM source_items
		WHERE source_id = ?
		ORDER BY position ASC, ctime ASC
	`
	args := []interface{}{sourceID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.SourceItem, 0)
	for rows.Next() {
		var item model.SourceItem
		var number sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SourceID, &item.Name, &number, &item.Image, &item.Position, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		if number.Valid {
			value := int(number.Int64)
			item.Number = &value
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
