package model

const (
	AchievementFirstCollection = "first_collection"
	AchievementCollector10     = "collector_10"
	AchievementFirstPublish    = "first_publish"
	AchievementFirstSync       = "first_sync"
	AchievementPopularSource   = "popular_source"
)

type Achievement struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Code   string `json:"code"`
	Ctime  int64  `json:"ctime"`
}
