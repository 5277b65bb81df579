// Package sync decides whether a collection cloned from a source needs
// attention: has the source moved on since the user last took it in, and has
// the user diverged from it. Both checks are pure comparisons over records the
// caller already fetched; offering a "sync updates" action is only safe when
// the first is true and the second is false.
package sync

import (
	"github.com/shelfd/shelfd/internal/model"
)

// HasUpdate reports whether the source has been modified after the collection
// last incorporated it. The baseline is last_synced_at when the user has
// synced at least once, otherwise the clone's creation time. Strictly greater
// than: a source whose mtime equals the baseline is not an update.
func HasUpdate(col *model.Collection, src *model.SourceCollection) bool {
	baseline := col.Ctime
	if col.LastSyncedAt != nil {
		baseline = *col.LastSyncedAt
	}
	return src.Mtime > baseline
}

// itemKey identifies a logical item across a source and its clones. Sources
// and collections do not share item IDs, so identity is the (number, name)
// pair, with an absent number distinct from any present one.
type itemKey struct {
	number    int
	hasNumber bool
	name      string
}

func keyOf(number *int, name string) itemKey {
	key := itemKey{name: name}
	if number != nil {
		key.number = *number
		key.hasNumber = true
	}
	return key
}

// IsCustomized reports whether the collection has been edited away from the
// source's current state. Checks run cheapest-first and short-circuit on the
// first divergence: metadata fields, then item-set size, then each source item
// against its counterpart. Items the user added beyond the source are caught
// by the size check alone; the per-item loop only asks whether what the source
// provides is still present and unchanged.
func IsCustomized(col *model.Collection, items []model.CollectionItem, src *model.SourceCollection, srcItems []model.SourceItem) bool {
	if col.Name != src.Name {
		return true
	}
	if col.Description != src.Description {
		return true
	}
	if col.Category != src.Category {
		return true
	}
	if col.CoverImage != src.CoverImage {
		return true
	}
	if col.CoverImageAspectRatio != src.CoverImageAspectRatio {
		return true
	}
	// Tags compare as the stored representation: same tags in a different
	// order count as a divergence.
	if !equalTags(col.Tags, src.Tags) {
		return true
	}

	colByKey := make(map[itemKey]model.CollectionItem, len(items))
	for _, item := range items {
		colByKey[keyOf(item.Number, item.Name)] = item
	}
	srcByKey := make(map[itemKey]model.SourceItem, len(srcItems))
	for _, item := range srcItems {
		srcByKey[keyOf(item.Number, item.Name)] = item
	}
	if len(colByKey) != len(srcByKey) {
		return true
	}
	for key, srcItem := range srcByKey {
		item, ok := colByKey[key]
		if !ok {
			return true
		}
		// Name is part of the key, but duplicate keys can collide; keep the
		// explicit check.
		if item.Name != srcItem.Name {
			return true
		}
		if item.Image != srcItem.Image {
			return true
		}
	}
	return false
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
