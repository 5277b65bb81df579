package service

import (
	"context"
	"strings"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/pkg/timeutil"
	"github.com/shelfd/shelfd/internal/repo"
	synccheck "github.com/shelfd/shelfd/internal/sync"
)

type CollectionService struct {
	collections  *repo.CollectionRepo
	items        *repo.CollectionItemRepo
	sources      *repo.SourceRepo
	sourceItems  *repo.SourceItemRepo
	achievements *AchievementService
}

func NewCollectionService(collections *repo.CollectionRepo, items *repo.CollectionItemRepo, sources *repo.SourceRepo, sourceItems *repo.SourceItemRepo, achievements *AchievementService) *CollectionService {
	return &CollectionService{
		collections:  collections,
		items:        items,
		sources:      sources,
		sourceItems:  sourceItems,
		achievements: achievements,
	}
}

type CollectionInput struct {
	Name                  string
	Description           string
	Category              string
	CoverImage            string
	CoverImageAspectRatio string
	Tags                  []string
}

type CollectionItemInput struct {
	Name     string
	Number   *int
	Image    string
	Position int
}

type CollectionDetail struct {
	Collection *model.Collection      `json:"collection"`
	Items      []model.CollectionItem `json:"items"`
}

// CheckUpdatesResult is what the check-updates endpoint serializes: has the
// linked source changed since the last sync, and has the owner diverged from
// it. Source is nil when the collection is independent or the source is gone.
type CheckUpdatesResult struct {
	HasUpdate    bool
	IsCustomized bool
	Source       *model.SourceCollection
	LastSyncedAt *int64
}

func (s *CollectionService) Create(ctx context.Context, userID string, input CollectionInput) (*model.Collection, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	col := &model.Collection{
		ID:                    newID(),
		UserID:                userID,
		Name:                  input.Name,
		Description:           input.Description,
		Category:              input.Category,
		CoverImage:            input.CoverImage,
		CoverImageAspectRatio: input.CoverImageAspectRatio,
		Tags:                  input.Tags,
		Ctime:                 now,
		Mtime:                 now,
	}
	if err := s.collections.Create(ctx, col); err != nil {
		return nil, err
	}
	s.awardCollectionMilestones(ctx, userID)
	return col, nil
}

func (s *CollectionService) Update(ctx context.Context, userID, collectionID string, input CollectionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return appErr.ErrInvalid
	}
	col, err := s.collections.GetByID(ctx, userID, collectionID)
	if err != nil {
		return err
	}
	col.Name = input.Name
	col.Description = input.Description
	col.Category = input.Category
	col.CoverImage = input.CoverImage
	col.CoverImageAspectRatio = input.CoverImageAspectRatio
	col.Tags = input.Tags
	col.Mtime = timeutil.NowUnix()
	return s.collections.Update(ctx, col)
}

func (s *CollectionService) Delete(ctx context.Context, userID, collectionID string) error {
	if err := s.collections.Delete(ctx, userID, collectionID); err != nil {
		return err
	}
	return s.items.DeleteByCollection(ctx, userID, collectionID)
}

func (s *CollectionService) Get(ctx context.Context, userID, collectionID string) (*CollectionDetail, error) {
	col, err := s.collections.GetByID(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	return &CollectionDetail{Collection: col, Items: items}, nil
}

func (s *CollectionService) List(ctx context.Context, userID string) ([]model.Collection, error) {
	return s.collections.ListByUser(ctx, userID)
}

func (s *CollectionService) AddItem(ctx context.Context, userID, collectionID string, input CollectionItemInput) (*model.CollectionItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.collections.GetByID(ctx, userID, collectionID); err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	item := &model.CollectionItem{
		ID:           newID(),
		CollectionID: collectionID,
		UserID:       userID,
		Name:         input.Name,
		Number:       input.Number,
		Image:        input.Image,
		Position:     input.Position,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CollectionService) UpdateItem(ctx context.Context, userID, itemID string, input CollectionItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return appErr.ErrInvalid
	}
	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return err
	}
	item.Name = input.Name
	item.Number = input.Number
	item.Image = input.Image
	item.Position = input.Position
	item.Mtime = timeutil.NowUnix()
	return s.items.Update(ctx, item)
}

func (s *CollectionService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return s.items.Delete(ctx, userID, itemID)
}

// Clone copies an active source's fields and items into a new collection for
// the caller. last_synced_at stays unset: the clone's ctime is the baseline
// for the first update check.
func (s *CollectionService) Clone(ctx context.Context, userID, sourceID string) (*CollectionDetail, error) {
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src.State != model.SourceStateActive {
		return nil, appErr.ErrNotFound
	}
	srcItems, err := s.sourceItems.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	col := &model.Collection{
		ID:                    newID(),
		UserID:                userID,
		Name:                  src.Name,
		Description:           src.Description,
		Category:              src.Category,
		CoverImage:            src.CoverImage,
		CoverImageAspectRatio: src.CoverImageAspectRatio,
		Tags:                  append([]string(nil), src.Tags...),
		SourceID:              src.ID,
		Ctime:                 now,
		Mtime:                 now,
	}
	if err := s.collections.Create(ctx, col); err != nil {
		return nil, err
	}
	items, err := s.copyItems(ctx, col, srcItems, now)
	if err != nil {
		return nil, err
	}
	s.awardCollectionMilestones(ctx, userID)
	return &CollectionDetail{Collection: col, Items: items}, nil
}

// Sync re-applies the source's current state onto the collection, replacing
// fields and the full item set, and advances last_synced_at.
func (s *CollectionService) Sync(ctx context.Context, userID, collectionID string) (*CollectionDetail, error) {
	col, err := s.collections.GetByID(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if col.SourceID == "" {
		return nil, appErr.ErrInvalid
	}
	src, err := s.sources.GetByID(ctx, col.SourceID)
	if err != nil {
		return nil, err
	}
	if src.State != model.SourceStateActive {
		return nil, appErr.ErrNotFound
	}
	srcItems, err := s.sourceItems.ListBySource(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	col.Name = src.Name
	col.Description = src.Description
	col.Category = src.Category
	col.CoverImage = src.CoverImage
	col.CoverImageAspectRatio = src.CoverImageAspectRatio
	col.Tags = append([]string(nil), src.Tags...)
	col.Mtime = now
	if err := s.collections.Update(ctx, col); err != nil {
		return nil, err
	}
	if err := s.items.DeleteByCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}
	items, err := s.copyItems(ctx, col, srcItems, now)
	if err != nil {
		return nil, err
	}
	if err := s.collections.MarkSynced(ctx, userID, collectionID, now); err != nil {
		return nil, err
	}
	syncedAt := now
	col.LastSyncedAt = &syncedAt
	s.achievements.Award(ctx, userID, model.AchievementFirstSync)
	return &CollectionDetail{Collection: col, Items: items}, nil
}

// CheckUpdates fetches the collection and its source and runs the pure
// comparison pair. An independent collection, a dangling source reference and
// a removed source all short-circuit to "nothing to report".
func (s *CollectionService) CheckUpdates(ctx context.Context, userID, collectionID string) (*CheckUpdatesResult, error) {
	col, err := s.collections.GetByID(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if col.SourceID == "" {
		return &CheckUpdatesResult{LastSyncedAt: col.LastSyncedAt}, nil
	}
	src, err := s.sources.GetByID(ctx, col.SourceID)
	if err == appErr.ErrNotFound {
		return &CheckUpdatesResult{LastSyncedAt: col.LastSyncedAt}, nil
	}
	if err != nil {
		return nil, err
	}
	if src.State != model.SourceStateActive {
		return &CheckUpdatesResult{LastSyncedAt: col.LastSyncedAt}, nil
	}
	items, err := s.items.ListByCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	srcItems, err := s.sourceItems.ListBySource(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	return &CheckUpdatesResult{
		HasUpdate:    synccheck.HasUpdate(col, src),
		IsCustomized: synccheck.IsCustomized(col, items, src, srcItems),
		Source:       src,
		LastSyncedAt: col.LastSyncedAt,
	}, nil
}

func (s *CollectionService) copyItems(ctx context.Context, col *model.Collection, srcItems []model.SourceItem, now int64) ([]model.CollectionItem, error) {
	items := make([]model.CollectionItem, 0, len(srcItems))
	for i, srcItem := range srcItems {
		item := &model.CollectionItem{
			ID:           newID(),
			CollectionID: col.ID,
			UserID:       col.UserID,
			Name:         srcItem.Name,
			Number:       srcItem.Number,
			Image:        srcItem.Image,
			Position:     i,
			Ctime:        now,
			Mtime:        now,
		}
		if err := s.items.Create(ctx, item); err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *CollectionService) awardCollectionMilestones(ctx context.Context, userID string) {
	s.achievements.Award(ctx, userID, model.AchievementFirstCollection)
	count, err := s.collections.CountByUser(ctx, userID)
	if err == nil && count >= 10 {
		s.achievements.Award(ctx, userID, model.AchievementCollector10)
	}
}
