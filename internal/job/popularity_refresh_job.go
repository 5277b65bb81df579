package job

import (
	"context"

	"github.com/shelfd/shelfd/internal/model"
	"github.com/shelfd/shelfd/internal/repo"
	"github.com/shelfd/shelfd/internal/service"
)

// PopularityRefreshJob recounts votes for every active source, repairing the
// denormalized vote_count when the inline refresh on the voting path was
// interrupted. Sources whose recount reaches the popularity threshold also
// earn their author the achievement, so a count that crossed the line through
// drift repair is not missed.
type PopularityRefreshJob struct {
	sources      *repo.SourceRepo
	votes        *repo.VoteRepo
	achievements *service.AchievementService
}

func NewPopularityRefreshJob(sources *repo.SourceRepo, votes *repo.VoteRepo, achievements *service.AchievementService) *PopularityRefreshJob {
	return &PopularityRefreshJob{sources: sources, votes: votes, achievements: achievements}
}

func (j *PopularityRefreshJob) Name() string {
	return "popularity_refresh"
}

func (j *PopularityRefreshJob) Run(ctx context.Context) error {
	refs, err := j.sources.ListActiveRefs(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		count, err := j.votes.CountBySource(ctx, ref.ID)
		if err != nil {
			return err
		}
		if err := j.sources.UpdateVoteCount(ctx, ref.ID, count); err != nil {
			return err
		}
		if count >= service.PopularSourceVotes {
			j.achievements.Award(ctx, ref.AuthorID, model.AchievementPopularSource)
		}
	}
	return nil
}
