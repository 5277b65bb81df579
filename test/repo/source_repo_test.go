package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/repo"
	"github.com/shelfd/shelfd/test/testutil"
)

func TestSourceRepoTouchMtimeAndState(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	sources := repo.NewSourceRepo(conn)
	src := &model.SourceCollection{
		ID:       testutil.NewID(),
		Kind:     model.SourceKindRecommended,
		AuthorID: testutil.NewID(),
		Name:     "Essential Hitchcock",
		Category: "films",
		Tags:     []string{"classics"},
		State:    model.SourceStateActive,
		Ctime:    100,
		Mtime:    100,
	}
	require.NoError(t, sources.Create(context.Background(), src))

	require.NoError(t, sources.TouchMtime(context.Background(), src.ID, 250))
	got, err := sources.GetByID(context.Background(), src.ID)
	require.NoError(t, err)
	require.EqualValues(t, 250, got.Mtime)

	require.NoError(t, sources.UpdateState(context.Background(), src.ID, model.SourceStateRemoved, 300))
	got, err = sources.GetByID(context.Background(), src.ID)
	require.NoError(t, err)
	require.Equal(t, model.SourceStateRemoved, got.State)
}

func TestSourceRepoGetByOriginCollection(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	sources := repo.NewSourceRepo(conn)
	authorID := testutil.NewID()
	originID := testutil.NewID()

	_, err := sources.GetByOriginCollection(context.Background(), authorID, originID)
	require.Equal(t, appErr.ErrNotFound, err)

	src := &model.SourceCollection{
		ID:                 testutil.NewID(),
		Kind:               model.SourceKindCommunity,
		AuthorID:           authorID,
		OriginCollectionID: originID,
		Name:               "Shared Shelf",
		State:              model.SourceStateActive,
		Ctime:              100,
		Mtime:              100,
	}
	require.NoError(t, sources.Create(context.Background(), src))

	got, err := sources.GetByOriginCollection(context.Background(), authorID, originID)
	require.NoError(t, err)
	require.Equal(t, src.ID, got.ID)
}
