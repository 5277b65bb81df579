package model

const (
	SourceKindRecommended = "recommended"
	SourceKindCommunity   = "community"
)

const (
	SourceStateActive  = 1
	SourceStateRemoved = 2
)

// SourceCollection is a clonable collection definition: admin-curated
// ("recommended") or published by a user ("community"). Mtime advances on
// every edit to the source itself or to its item set; check-updates compares
// against it.
type SourceCollection struct {
	ID                    string   `json:"id"`
	Kind                  string   `json:"kind"`
	AuthorID              string   `json:"author_id"`
	OriginCollectionID    string   `json:"origin_collection_id,omitempty"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	CoverImage            string   `json:"cover_image"`
	CoverImageAspectRatio string   `json:"cover_image_aspect_ratio"`
	Tags                  []string `json:"tags"`
	VoteCount             int      `json:"vote_count"`
	State                 int      `json:"state"`
	Ctime                 int64    `json:"ctime"`
	Mtime                 int64    `json:"mtime"`
}

type SourceItem struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Number   *int   `json:"number"`
	Image    string `json:"image"`
	Position int    `json:"position"`
	Ctime    int64  `json:"ctime"`
	Mtime    int64  `json:"mtime"`
}
