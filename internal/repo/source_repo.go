package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/pkg/dbutil"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
)

type SourceRepo struct {
	db *sql.DB
}

func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

var sourceFields = []string{
	"id", "kind", "author_id", "origin_collection_id", "name", "description", "category", "cover_image",
	"cover_image_aspect_ratio", "tags_json", "vote_count", "state", "ctime", "mtime",
}

func (r *SourceRepo) Create(ctx context.Context, src *model.SourceCollection) error {
	tagsJSON, _ := json.Marshal(src.Tags)
	data := map[string]interface{}{
		"id":                       src.ID,
		"kind":                     src.Kind,
		"author_id":                src.AuthorID,
		"origin_collection_id":     nullableString(src.OriginCollectionID),
		"name":                     src.Name,
		"description":              src.Description,
		"category":                 src.Category,
		"cover_image":              src.CoverImage,
		"cover_image_aspect_ratio": src.CoverImageAspectRatio,
		"tags_json":                string(tagsJSON),
		"vote_count":               src.VoteCount,
		"state":                    src.State,
		"ctime":                    src.Ctime,
		"mtime":                    src.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("source_collections", []map[string]interface{}{data})
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

func (r *SourceRepo) Update(ctx context.Context, src *model.SourceCollection) error {
	tagsJSON, _ := json.Marshal(src.Tags)
	where := map[string]interface{}{"id": src.ID}
	update := map[string]interface{}{
		"name":                     src.Name,
		"description":              src.Description,
		"category":                 src.Category,
		"cover_image":              src.CoverImage,
		"cover_image_aspect_ratio": src.CoverImageAspectRatio,
		"tags_json":                string(tagsJSON),
		"mtime":                    src.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("source_collections", where, update)
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

// TouchMtime is the update-propagation hook: any edit to a source's item set
// must advance the source's mtime so clones can see the change.
func (r *SourceRepo) TouchMtime(ctx context.Context, sourceID string, mtime int64) error {
	sqlStr, args, err := builder.BuildUpdate("source_collections",
		map[string]interface{}{"id": sourceID},
		map[string]interface{}{"mtime": mtime})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SourceRepo) UpdateState(ctx context.Context, sourceID string, state int, mtime int64) error {
	sqlStr, args, err := builder.BuildUpdate("source_collections",
		map[string]interface{}{"id": sourceID},
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

func (r *SourceRepo) UpdateVoteCount(ctx context.Context, sourceID string, count int) error {
	sqlStr, args, err := builder.BuildUpdate("source_collections",
		map[string]interface{}{"id": sourceID},
		map[string]interface{}{"vote_count": count})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SourceRepo) GetByID(ctx context.Context, sourceID string) (*model.SourceCollection, error) {
	sqlStr, args, err := builder.BuildSelect("source_collections", map[string]interface{}{"id": sourceID}, sourceFields)
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
	return scanSource(rows)
}

func (r *SourceRepo) GetByOriginCollection(ctx context.Context, authorID, collectionID string) (*model.SourceCollection, error) {
	sqlStr, args, err := builder.BuildSelect("source_collections", map[string]interface{}{
		"author_id":            authorID,
		"origin_collection_id": collectionID,
		"kind":                 model.SourceKindCommunity,
	}, sourceFields)
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
	return scanSource(rows)
}

type SourceFilter struct {
	Kind     string
	Category string
	Query    string
	AuthorID string
}

func (r *SourceRepo) List(ctx context.Context, filter SourceFilter, limit, offset uint) ([]model.SourceCollection, error) {
	clauses := []string{"state = ?"}
	args := []interface{}{model.SourceStateActive}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.AuthorID != "" {
		clauses = append(clauses, "author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if filter.Query != "" {
		clauses = append(clauses, "(name ILIKE ? OR description ILIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	sqlStr := `
		SELECT id, kind, author_id, name, description, category, cover_image,
			cover_image_aspect_ratio, tags_json, vote_count, state, ctime, mtime
		FROM source_collections
		WHERE ` + strings.Join(clauses, " AND ") + `
		ORDER BY vote_count DESC, mtime DESC
	`
	if limit > 0 {
		sqlStr += " LIMIT ?, ?"
		args = append(args, offset, limit)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.SourceCollection, 0)
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *src)
	}
	return items, rows.Err()
}

// SourceRef is the slice of a source the recount job needs: which source to
// recount and whose achievement a high count feeds.
type SourceRef struct {
	ID       string
	AuthorID string
}

func (r *SourceRepo) ListActiveRefs(ctx context.Context) ([]SourceRef, error) {
	sqlStr := `SELECT id, author_id FROM source_collections WHERE state = ?`
	args := []interface{}{model.SourceStateActive}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refs := make([]SourceRef, 0)
	for rows.Next() {
		var ref SourceRef
		if err := rows.Scan(&ref.ID, &ref.AuthorID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

type sourceScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(s sourceScanner) (*model.SourceCollection, error) {
	var src model.SourceCollection
	var tagsJSON string
	var originID sql.NullString
	if err := s.Scan(
		&src.ID,
		&src.Kind,
		&src.AuthorID,
		&originID,
		&src.Name,
		&src.Description,
		&src.Category,
		&src.CoverImage,
		&src.CoverImageAspectRatio,
		&tagsJSON,
		&src.VoteCount,
		&src.State,
		&src.Ctime,
		&src.Mtime,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &src.Tags); err != nil {
		return nil, fmt.Errorf("decode tags_json for source %s: %w", src.ID, err)
	}
	if originID.Valid {
		src.OriginCollectionID = originID.String
	}
	return &src, nil
}
