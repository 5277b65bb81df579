package model

// Collection is a user-owned set of items, optionally cloned from a
// SourceCollection. SourceID is a weak reference: the source may be edited or
// removed independently, and many collections may point at the same source.
type Collection struct {
	ID                    string  `json:"id"`
	UserID                string  `json:"user_id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	Category              string  `json:"category"`
	CoverImage            string  `json:"cover_image"`
	CoverImageAspectRatio string  `json:"cover_image_aspect_ratio"`
	Tags                  []string `json:"tags"`
	SourceID              string  `json:"source_id,omitempty"`
	LastSyncedAt          *int64  `json:"last_synced_at"`
	Ctime                 int64   `json:"ctime"`
	Mtime                 int64   `json:"mtime"`
}

type CollectionItem struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Number       *int   `json:"number"`
	Image        string `json:"image"`
	Position     int    `json:"position"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
