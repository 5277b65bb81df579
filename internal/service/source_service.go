package service

import (
	"context"
	"strings"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/pkg/markdown"
	"github.com/shelfd/shelfd/internal/pkg/timeutil"
	"github.com/shelfd/shelfd/internal/repo"
)

type SourceService struct {
	sources      *repo.SourceRepo
	sourceItems  *repo.SourceItemRepo
	collections  *repo.CollectionRepo
	items        *repo.CollectionItemRepo
	achievements *AchievementService
}

func NewSourceService(sources *repo.SourceRepo, sourceItems *repo.SourceItemRepo, collections *repo.CollectionRepo, items *repo.CollectionItemRepo, achievements *AchievementService) *SourceService {
	return &SourceService{
		sources:      sources,
		sourceItems:  sourceItems,
		collections:  collections,
		items:        items,
		achievements: achievements,
	}
}

type SourceInput struct {
	Name                  string
	Description           string
	Category              string
	CoverImage            string
	CoverImageAspectRatio string
	Tags                  []string
}

type SourceItemInput struct {
	Name   string
	Number *int
	Image  string
}

type SourceDetail struct {
	Source          *model.SourceCollection `json:"source"`
	Items           []model.SourceItem      `json:"items"`
	DescriptionHTML string                  `json:"description_html"`
}

func (s *SourceService) List(ctx context.Context, filter repo.SourceFilter, limit, offset uint) ([]model.SourceCollection, error) {
	return s.sources.List(ctx, filter, limit, offset)
}

func (s *SourceService) Get(ctx context.Context, sourceID string) (*SourceDetail, error) {
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src.State != model.SourceStateActive {
		return nil, appErr.ErrNotFound
	}
	items, err := s.sourceItems.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	html := ""
	if src.Description != "" {
		if rendered, err := markdown.Render(src.Description); err == nil {
			html = rendered
		}
	}
	return &SourceDetail{Source: src, Items: items, DescriptionHTML: html}, nil
}

// CreateRecommended is the admin path for curated sources. Items are part of
// the definition and are written in the given order.
func (s *SourceService) CreateRecommended(ctx context.Context, authorID string, input SourceInput, items []SourceItemInput) (*SourceDetail, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	src := &model.SourceCollection{
		ID:                    newID(),
		Kind:                  model.SourceKindRecommended,
		AuthorID:              authorID,
		Name:                  input.Name,
		Description:           input.Description,
		Category:              input.Category,
		CoverImage:            input.CoverImage,
		CoverImageAspectRatio: input.CoverImageAspectRatio,
		Tags:                  input.Tags,
		State:                 model.SourceStateActive,
		Ctime:                 now,
		Mtime:                 now,
	}
	if err := s.sources.Create(ctx, src); err != nil {
		return nil, err
	}
	created, err := s.writeItems(ctx, src.ID, items, now)
	if err != nil {
		return nil, err
	}
	return &SourceDetail{Source: src, Items: created}, nil
}

// UpdateRecommended edits a curated source's fields. The mtime write is what
// makes the edit visible to clones on their next update check.
func (s *SourceService) UpdateRecommended(ctx context.Context, sourceID string, input SourceInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return appErr.ErrInvalid
	}
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return err
	}
	if src.Kind != model.SourceKindRecommended {
		return appErr.ErrInvalid
	}
	src.Name = input.Name
	src.Description = input.Description
	src.Category = input.Category
	src.CoverImage = input.CoverImage
	src.CoverImageAspectRatio = input.CoverImageAspectRatio
	src.Tags = input.Tags
	src.Mtime = timeutil.NowUnix()
	return s.sources.Update(ctx, src)
}

// ReplaceItems swaps a source's whole item set and touches the source mtime
// so the item edit propagates to update checks.
func (s *SourceService) ReplaceItems(ctx context.Context, sourceID string, items []SourceItemInput) ([]model.SourceItem, error) {
	if _, err := s.sources.GetByID(ctx, sourceID); err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	if err := s.sourceItems.DeleteBySource(ctx, sourceID); err != nil {
		return nil, err
	}
	created, err := s.writeItems(ctx, sourceID, items, now)
	if err != nil {
		return nil, err
	}
	if err := s.sources.TouchMtime(ctx, sourceID, now); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SourceService) Remove(ctx context.Context, sourceID string) error {
	return s.sources.UpdateState(ctx, sourceID, model.SourceStateRemoved, timeutil.NowUnix())
}

// Publish snapshots a user collection into a community source. Republishing
// the same collection updates the existing snapshot in place and advances its
// mtime, which is how subscribers of the community source learn of the change.
func (s *SourceService) Publish(ctx context.Context, userID, collectionID string) (*SourceDetail, error) {
	col, err := s.collections.GetByID(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	colItems, err := s.items.ListByCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()

	existing, err := s.sources.GetByOriginCollection(ctx, userID, collectionID)
	if err != nil && err != appErr.ErrNotFound {
		return nil, err
	}
	if err == nil {
		existing.Name = col.Name
		existing.Description = col.Description
		existing.Category = col.Category
		existing.CoverImage = col.CoverImage
		existing.CoverImageAspectRatio = col.CoverImageAspectRatio
		existing.Tags = append([]string(nil), col.Tags...)
		existing.Mtime = now
		if err := s.sources.Update(ctx, existing); err != nil {
			return nil, err
		}
		if err := s.sourceItems.DeleteBySource(ctx, existing.ID); err != nil {
			return nil, err
		}
		created, err := s.snapshotItems(ctx, existing.ID, colItems, now)
		if err != nil {
			return nil, err
		}
		return &SourceDetail{Source: existing, Items: created}, nil
	}

	src := &model.SourceCollection{
		ID:                    newID(),
		Kind:                  model.SourceKindCommunity,
		AuthorID:              userID,
		OriginCollectionID:    collectionID,
		Name:                  col.Name,
		Description:           col.Description,
		Category:              col.Category,
		CoverImage:            col.CoverImage,
		CoverImageAspectRatio: col.CoverImageAspectRatio,
		Tags:                  append([]string(nil), col.Tags...),
		State:                 model.SourceStateActive,
		Ctime:                 now,
		Mtime:                 now,
	}
	if err := s.sources.Create(ctx, src); err != nil {
		return nil, err
	}
	created, err := s.snapshotItems(ctx, src.ID, colItems, now)
	if err != nil {
		return nil, err
	}
	s.achievements.Award(ctx, userID, model.AchievementFirstPublish)
	return &SourceDetail{Source: src, Items: created}, nil
}

func (s *SourceService) writeItems(ctx context.Context, sourceID string, items []SourceItemInput, now int64) ([]model.SourceItem, error) {
	created := make([]model.SourceItem, 0, len(items))
	for i, input := range items {
		if strings.TrimSpace(input.Name) == "" {
			return nil, appErr.ErrInvalid
		}
		item := &model.SourceItem{
			ID:       newID(),
			SourceID: sourceID,
			Name:     input.Name,
			Number:   input.Number,
			Image:    input.Image,
			Position: i,
			Ctime:    now,
			Mtime:    now,
		}
		if err := s.sourceItems.Create(ctx, item); err != nil {
			return nil, err
		}
		created = append(created, *item)
	}
	return created, nil
}

func (s *SourceService) snapshotItems(ctx context.Context, sourceID string, colItems []model.CollectionItem, now int64) ([]model.SourceItem, error) {
	inputs := make([]SourceItemInput, 0, len(colItems))
	for _, item := range colItems {
		inputs = append(inputs, SourceItemInput{Name: item.Name, Number: item.Number, Image: item.Image})
	}
	return s.writeItems(ctx, sourceID, inputs, now)
}
