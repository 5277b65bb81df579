package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/shelfd/shelfd/internal/model"
	appErr "github.com/shelfd/shelfd/internal/pkg/errors"
	"github.com/shelfd/shelfd/internal/pkg/timeutil"
	"github.com/shelfd/shelfd/internal/repo"
)

type AchievementService struct {
	achievements *repo.AchievementRepo
}

func NewAchievementService(achievements *repo.AchievementRepo) *AchievementService {
	return &AchievementService{achievements: achievements}
}

func (s *AchievementService) List(ctx context.Context, userID string) ([]model.Achievement, error) {
	return s.achievements.ListByUser(ctx, userID)
}

// Award grants a code once per user; re-awarding is a no-op. Failures are
// logged and swallowed so a badge hiccup never fails the action that earned
// it.
func (s *AchievementService) Award(ctx context.Context, userID, code string) {
	err := s.achievements.Create(ctx, &model.Achievement{
		ID:     newID(),
		UserID: userID,
		Code:   code,
		Ctime:  timeutil.NowUnix(),
	})
	if err != nil && err != appErr.ErrConflict {
		logutil.GetLogger(ctx).Warn("award achievement failed",
			zap.String("user_id", userID), zap.String("code", code), zap.Error(err))
	}
}
