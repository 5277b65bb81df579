package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfd/shelfd/internal/middleware"
)

type RouterDeps struct {
	Auth         *AuthHandler
	Collections  *CollectionHandler
	Sources      *SourceHandler
	Votes        *VoteHandler
	Reports      *ReportHandler
	Achievements *AchievementHandler
	JWTSecret    []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/logout", deps.Auth.Logout)

	api.GET("/sources", deps.Sources.List)
	api.GET("/sources/:id", deps.Sources.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.POST("/collections", deps.Collections.Create)
	authGroup.GET("/collections", deps.Collections.List)
	authGroup.GET("/collections/:id", deps.Collections.Get)
	authGroup.PUT("/collections/:id", deps.Collections.Update)
	authGroup.DELETE("/collections/:id", deps.Collections.Delete)
	authGroup.GET("/collections/:id/check-updates", deps.Collections.CheckUpdates)
	authGroup.POST("/collections/:id/sync", deps.Collections.Sync)
	authGroup.POST("/collections/:id/publish", deps.Sources.Publish)

	authGroup.POST("/collections/:id/items", deps.Collections.AddItem)
	authGroup.PUT("/collections/:id/items/:itemId", deps.Collections.UpdateItem)
	authGroup.DELETE("/collections/:id/items/:itemId", deps.Collections.RemoveItem)

	authGroup.POST("/sources/:id/clone", deps.Sources.Clone)
	authGroup.PUT("/sources/:id/vote", deps.Votes.Vote)
	authGroup.DELETE("/sources/:id/vote", deps.Votes.Unvote)
	authGroup.POST("/sources/:id/report", deps.Reports.Create)

	authGroup.GET("/reports", deps.Reports.ListOwn)
	authGroup.GET("/achievements", deps.Achievements.List)

	authGroup.POST("/admin/sources", deps.Sources.CreateRecommended)
	authGroup.PUT("/admin/sources/:id", deps.Sources.UpdateRecommended)
	authGroup.PUT("/admin/sources/:id/items", deps.Sources.ReplaceItems)
	authGroup.DELETE("/admin/sources/:id", deps.Sources.Remove)
	authGroup.GET("/admin/reports", deps.Reports.ListOpen)
	authGroup.PUT("/admin/reports/:id/resolve", deps.Reports.Resolve)
}
