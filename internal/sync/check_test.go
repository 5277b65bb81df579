package sync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/internal/model"
)

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func baseSource() *model.SourceCollection {
	return &model.SourceCollection{
		ID:                    "src-1",
		Kind:                  model.SourceKindRecommended,
		Name:                  "Sandman",
		Description:           "The complete run",
		Category:              "comics",
		CoverImage:            "https://img.example/sandman.jpg",
		CoverImageAspectRatio: "2:3",
		Tags:                  []string{"vertigo", "gaiman"},
		State:                 model.SourceStateActive,
		Ctime:                 1000,
		Mtime:                 1000,
	}
}

func cloneOf(src *model.SourceCollection) *model.Collection {
	return &model.Collection{
		ID:                    "col-1",
		UserID:                "user-1",
		Name:                  src.Name,
		Description:           src.Description,
		Category:              src.Category,
		CoverImage:            src.CoverImage,
		CoverImageAspectRatio: src.CoverImageAspectRatio,
		Tags:                  append([]string(nil), src.Tags...),
		SourceID:              src.ID,
		Ctime:                 2000,
		Mtime:                 2000,
	}
}

func TestHasUpdateNeverSyncedUsesCreationBaseline(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	col.Ctime = 5000

	src.Mtime = 6000
	require.True(t, HasUpdate(col, src))

	src.Mtime = 5000
	require.False(t, HasUpdate(col, src), "equal timestamps are not an update")

	src.Mtime = 4000
	require.False(t, HasUpdate(col, src))
}

func TestHasUpdateSyncedUsesLastSyncBaseline(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	col.Ctime = 1
	col.LastSyncedAt = int64Ptr(5000)

	src.Mtime = 6000
	require.True(t, HasUpdate(col, src))

	src.Mtime = 5000
	require.False(t, HasUpdate(col, src))

	// Creation time no longer matters once a sync happened.
	col.Ctime = 9999
	src.Mtime = 5500
	require.True(t, HasUpdate(col, src))
}

func TestIsCustomizedIdenticalClone(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	srcItems := []model.SourceItem{
		{Name: "Preludes & Nocturnes", Number: intPtr(1), Image: "i1"},
		{Name: "The Doll's House", Number: intPtr(2), Image: "i2"},
		{Name: "Overture", Image: "i3"},
	}
	items := []model.CollectionItem{
		{Name: "Preludes & Nocturnes", Number: intPtr(1), Image: "i1"},
		{Name: "The Doll's House", Number: intPtr(2), Image: "i2"},
		{Name: "Overture", Image: "i3"},
	}
	require.False(t, IsCustomized(col, items, src, srcItems))
}

func TestIsCustomizedMetadataFields(t *testing.T) {
	src := baseSource()

	col := cloneOf(src)
	col.Name = col.Name + " "
	require.True(t, IsCustomized(col, nil, src, nil), "name differs by whitespace only")

	col = cloneOf(src)
	col.Description = ""
	require.True(t, IsCustomized(col, nil, src, nil), "description cleared")

	col = cloneOf(src)
	col.Category = "graphic-novels"
	require.True(t, IsCustomized(col, nil, src, nil))

	col = cloneOf(src)
	col.CoverImage = "https://img.example/other.jpg"
	require.True(t, IsCustomized(col, nil, src, nil))

	col = cloneOf(src)
	col.CoverImageAspectRatio = ""
	require.True(t, IsCustomized(col, nil, src, nil))
}

func TestIsCustomizedTagsCompareAsStored(t *testing.T) {
	src := baseSource()

	col := cloneOf(src)
	col.Tags = []string{"gaiman", "vertigo"}
	require.True(t, IsCustomized(col, nil, src, nil), "reordered tags are a divergence")

	col = cloneOf(src)
	col.Tags = nil
	src2 := baseSource()
	src2.Tags = nil
	require.False(t, IsCustomized(col, nil, src2, nil))

	// nil and empty normalize to the same absent value.
	col.Tags = []string{}
	require.False(t, IsCustomized(col, nil, src2, nil))
}

func TestIsCustomizedItemAdded(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	srcItems := []model.SourceItem{
		{Name: "A", Number: intPtr(1)},
		{Name: "B", Number: intPtr(2)},
		{Name: "C", Number: intPtr(3)},
	}
	items := []model.CollectionItem{
		{Name: "A", Number: intPtr(1)},
		{Name: "B", Number: intPtr(2)},
		{Name: "C", Number: intPtr(3)},
		{Name: "D", Number: intPtr(4)},
	}
	require.True(t, IsCustomized(col, items, src, srcItems))
}

func TestIsCustomizedItemRenamedSameCount(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	srcItems := []model.SourceItem{
		{Name: "Issue 1", Number: intPtr(1)},
		{Name: "Issue 2", Number: intPtr(2)},
	}
	items := []model.CollectionItem{
		{Name: "Issue One", Number: intPtr(1)},
		{Name: "Issue 2", Number: intPtr(2)},
	}
	require.True(t, IsCustomized(col, items, src, srcItems))
}

func TestIsCustomizedImageOnlyChange(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	srcItems := []model.SourceItem{
		{Name: "Issue 1", Number: intPtr(1), Image: "cover-a"},
	}
	items := []model.CollectionItem{
		{Name: "Issue 1", Number: intPtr(1), Image: "cover-b"},
	}
	require.True(t, IsCustomized(col, items, src, srcItems))

	items[0].Image = ""
	require.True(t, IsCustomized(col, items, src, srcItems), "image cleared counts too")
}

func TestIsCustomizedNumberDistinguishesItems(t *testing.T) {
	src := baseSource()
	col := cloneOf(src)
	srcItems := []model.SourceItem{
		{Name: "Annual", Number: intPtr(1)},
	}
	items := []model.CollectionItem{
		{Name: "Annual"},
	}
	require.True(t, IsCustomized(col, items, src, srcItems), "absent number is not number 0")
}

func TestChecksAreIdempotent(t *testing.T) {
	src := baseSource()
	src.Mtime = 3000
	col := cloneOf(src)
	srcItems := []model.SourceItem{{Name: "A", Number: intPtr(1), Image: "i1"}}
	items := []model.CollectionItem{{Name: "A", Number: intPtr(1), Image: "i1"}}

	first := HasUpdate(col, src)
	second := HasUpdate(col, src)
	require.Equal(t, first, second)

	firstCustom := IsCustomized(col, items, src, srcItems)
	secondCustom := IsCustomized(col, items, src, srcItems)
	require.Equal(t, firstCustom, secondCustom)
}

func TestUpdateAvailableOnUncustomizedClone(t *testing.T) {
	src := baseSource()
	src.Name = "X"
	src.Description = ""
	src.Category = ""
	src.CoverImage = ""
	src.CoverImageAspectRatio = ""
	src.Tags = nil
	src.Mtime = 1717200000
	srcItems := []model.SourceItem{{Name: "A", Number: intPtr(1), Image: "i1"}}

	col := cloneOf(src)
	col.LastSyncedAt = int64Ptr(1714521600)
	items := []model.CollectionItem{{Name: "A", Number: intPtr(1), Image: "i1"}}

	require.True(t, HasUpdate(col, src))
	require.False(t, IsCustomized(col, items, src, srcItems))
}
