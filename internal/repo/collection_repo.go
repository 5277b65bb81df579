package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type CollectionRepo struct {
	db *sql.DB
}

func NewCollectionRepo(db *sql.DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

var collectionFields = []string{
	"id", "user_id", "name", "description", "category", "cover_image",
	"cover_image_aspect_ratio", "tags_json", "source_id", "last_synced_at", "ctime", "mtime",
}

func (r *CollectionRepo) Create(ctx context.Context, col *model.Collection) error {
	tagsJSON, _ := json.Marshal(col.Tags)
	data := map[string]interface{}{
		"id":                       col.ID,
		"user_id":                  col.UserID,
		"name":                     col.Name,
		"description":              col.Description,
		"category":                 col.Category,
		"cover_image":              col.CoverImage,
		"cover_image_aspect_ratio": col.CoverImageAspectRatio,
		"tags_json":                string(tagsJSON),
		"source_id":                nullableString(col.SourceID),
		"last_synced_at":           nullableInt64(col.LastSyncedAt),
		"ctime":                    col.Ctime,
		"mtime":                    col.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("collections", []map[string]interface{}{data})
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

func (r *CollectionRepo) Update(ctx context.Context, col *model.Collection) error {
	tagsJSON, _ := json.Marshal(col.Tags)
	where := map[string]interface{}{"id": col.ID, "user_id": col.UserID}
	update := map[string]interface{}{
		"name":                     col.Name,
		"description":              col.Description,
		"category":                 col.Category,
		"cover_image":              col.CoverImage,
		"cover_image_aspect_ratio": col.CoverImageAspectRatio,
		"tags_json":                string(tagsJSON),
		"mtime":                    col.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("collections", where, update)
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

// MarkSynced advances last_synced_at. The guard keeps the timestamp
// monotonic: a stale writer can never move it backwards.
func (r *CollectionRepo) MarkSynced(ctx context.Context, userID, collectionID string, syncedAt int64) error {
	sqlStr := `
		UPDATE collections
		SET last_synced_at = ?, mtime = ?
		WHERE id = ? AND user_id = ? AND (last_synced_at IS NULL OR last_synced_at <= ?)
	`
	args := []interface{}{syncedAt, syncedAt, collectionID, userID, syncedAt}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *CollectionRepo) Delete(ctx context.Context, userID, collectionID string) error {
	sqlStr, args, err := builder.BuildDelete("collections", map[string]interface{}{"id": collectionID, "user_id": userID})
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

func (r *CollectionRepo) GetByID(ctx context.Context, userID, collectionID string) (*model.Collection, error) {
	sqlStr, args, err := builder.BuildSelect("collections", map[string]interface{}{"id": collectionID, "user_id": userID}, collectionFields)
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
	return scanCollection(rows)
}

func (r *CollectionRepo) ListByUser(ctx context.Context, userID string) ([]model.Collection, error) {
	sqlStr := `
		SELECT id, user_id, name, description, category, cover_image,
			cover_image_aspect_ratio, tags_json, source_id, last_synced_at, ctime, mtime
		FROM collections
		WHERE user_id = ?
		ORDER BY mtime DESC
	`
	args := []interface{}{userID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Collection, 0)
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *col)
	}
	return items, rows.Err()
}

func (r *CollectionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	sqlStr := `SELECT COUNT(1) FROM collections WHERE user_id = ?`
	args := []interface{}{userID}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type collectionScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(s collectionScanner) (*model.Collection, error) {
	var col model.Collection
	var tagsJSON string
	var sourceID sql.NullString
	var lastSyncedAt sql.NullInt64
	if err := s.Scan(
		&col.ID,
		&col.UserID,
		&col.Name,
		&col.Description,
		&col.Category,
		&col.CoverImage,
		&col.CoverImageAspectRatio,
		&tagsJSON,
		&sourceID,
		&lastSyncedAt,
		&col.Ctime,
		&col.Mtime,
	); err != nil {
		return nil, err
	}
	// Tags feed the customization comparison; a row we cannot decode must
	// fail the request rather than compare as empty.
	if err := json.Unmarshal([]byte(tagsJSON), &col.Tags); err != nil {
		return nil, fmt.Errorf("decode tags_json for collection %s: %w", col.ID, err)
	}
	if sourceID.Valid {
		col.SourceID = sourceID.String
	}
	if lastSyncedAt.Valid {
		value := lastSyncedAt.Int64
		col.LastSyncedAt = &value
	}
	return &col, nil
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value *int64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
