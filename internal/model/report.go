package model

const (
	ReportStateOpen     = 1
	ReportStateResolved = 2
)

type Report struct {
	ID         string `json:"id"`
	SourceID   string `json:"source_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	State      int    `json:"state"`
	Ctime      int64  `json:"ctime"`
	Mtime      int64  `json:"mtime"`
}
