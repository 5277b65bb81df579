package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfd/shelfd/internal/pkg/response"
	"github.com/shelfd/shelfd/internal/service"
)

type AchievementHandler struct {
	achievements *service.AchievementService
}

func NewAchievementHandler(achievements *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

func (h *AchievementHandler) List(c *gin.Context) {
	items, err := h.achievements.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}
