package service

import (
	"context"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/pkg/timeutil"
	"github.com/shelfd/shelfd/internal/repo"
)

// PopularSourceVotes is the vote count at which a source earns its author the
// popular-source achievement, checked on the live vote path and again by the
// nightly recount.
const PopularSourceVotes = 10

type VoteService struct {
	votes        *repo.VoteRepo
	sources      *repo.SourceRepo
	achievements *AchievementService
}

func NewVoteService(votes *repo.VoteRepo, sources *repo.SourceRepo, achievements *AchievementService) *VoteService {
	return &VoteService{votes: votes, sources: sources, achievements: achievements}
}

func (s *VoteService) Vote(ctx context.Context, userID, sourceID string) (int, error) {
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	if src.State != model.SourceStateActive {
		return 0, appErr.ErrNotFound
	}
	err = s.votes.Create(ctx, &model.Vote{
		UserID:   userID,
		SourceID: sourceID,
		Ctime:    timeutil.NowUnix(),
	})
	if err != nil && err != appErr.ErrConflict {
		return 0, err
	}
	count, err := s.refreshCount(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	if count >= PopularSourceVotes {
		s.achievements.Award(ctx, src.AuthorID, model.AchievementPopularSource)
	}
	return count, nil
}

func (s *VoteService) Unvote(ctx context.Context, userID, sourceID string) (int, error) {
	if err := s.votes.Delete(ctx, userID, sourceID); err != nil && err != appErr.ErrNotFound {
		return 0, err
	}
	return s.refreshCount(ctx, sourceID)
}

func (s *VoteService) refreshCount(ctx context.Context, sourceID string) (int, error) {
	count, err := s.votes.CountBySource(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	if err := s.sources.UpdateVoteCount(ctx, sourceID, count); err != nil {
		return 0, err
	}
	return count, nil
}
