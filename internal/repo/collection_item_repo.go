package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type CollectionItemRepo struct {
	db *sql.DB
}

func NewCollectionItemRepo(db *sql.DB) *CollectionItemRepo {
	return &CollectionItemRepo{db: db}
}

func (r *CollectionItemRepo) Create(ctx context.Context, item *model.CollectionItem) error {
	data := map[string]interface{}{
		"id":            item.ID,
		"collection_id": item.CollectionID,
		"user_id":       item.UserID,
		"name":          item.Name,
		"number":        nullableInt(item.Number),
		"image":         item.Image,
		"position":      item.Position,
		"ctime":         item.Ctime,
		"mtime":         item.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("collection_items", []map[string]interface{}{data})
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

func (r *CollectionItemRepo) Update(ctx context.Context, item *model.CollectionItem) error {
	where := map[string]interface{}{"id": item.ID, "user_id": item.UserID}
	update := map[string]interface{}{
		"name":     item.Name,
		"number":   nullableInt(item.Number),
		"image":    item.Image,
		"position": item.Position,
		"mtime":    item.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("collection_items", where, update)
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

func (r *CollectionItemRepo) Delete(ctx context.Context, userID, itemID string) error {
	sqlStr, args, err := builder.BuildDelete("collection_items", map[string]interface{}{"id": itemID, "user_id": userID})
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

func (r *CollectionItemRepo) DeleteByCollection(ctx context.Context, userID, collectionID string) error {
	sqlStr, args, err := builder.BuildDelete("collection_items", map[string]interface{}{"collection_id": collectionID, "user_id": userID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *CollectionItemRepo) GetByID(ctx context.Context, userID, itemID string) (*model.CollectionItem, error) {
	sqlStr, args, err := builder.BuildSelect("collection_items", map[string]interface{}{"id": itemID, "user_id": userID}, []string{
		"id", "collection_id", "user_id", "name", "number", "image", "position", "ctime", "mtime",
	})
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
	return scanCollectionItem(rows)
}

func (r *CollectionItemRepo) ListByCollection(ctx context.Context, userID, collectionID string) ([]model.CollectionItem, error) {
	sqlStr := `
		SELECT id, collection_id, user_id, name, number, image, position, ctime, mtime
		FROM collection_items
		WHERE collection_id = ? AND user_id = ?
		ORDER BY position ASC, ctime ASC
	`
	args := []interface{}{collectionID, userID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CollectionItem, 0)
	for rows.Next() {
		item, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type collectionItemScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollectionItem(s collectionItemScanner) (*model.CollectionItem, error) {
	var item model.CollectionItem
	var number sql.NullInt64
	if err := s.Scan(
		&item.ID,
		&item.CollectionID,
		&item.UserID,
		&item.Name,
		&number,
		&item.Image,
		&item.Position,
		&item.Ctime,
		&item.Mtime,
	); err != nil {
		return nil, err
	}
	if number.Valid {
		value := int(number.Int64)
		item.Number = &value
	}
	return &item, nil
}

func nullableInt(value *int) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
