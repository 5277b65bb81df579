package model

type Vote struct {
	UserID   string `json:"user_id"`
	SourceID string `json:"source_id"`
	Ctime    int64  `json:"ctime"`
}
