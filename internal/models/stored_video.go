package models

import (
	"errors"
	"time"
)

// StoredVideo is the persisted outcome of a pipeline run: a video the
// quality gate accepted. StoredVideo rows are immutable once written; the
// only operations the core performs on them are inserts and existence
// checks keyed by ExternalID.
type StoredVideo struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SourceID  string   `json:"source_id" gorm:"type:varchar(36);not null;index"`
	Platform  Platform `json:"platform" gorm:"type:varchar(20);not null;index"`

	// ExternalID is "{platform}:{video_id}" and the uniqueness key that
	// makes inserts idempotent across worker cycles.
	ExternalID string `json:"external_id" gorm:"type:varchar(300);not null;uniqueIndex"`

	Title       string `json:"title" gorm:"type:varchar(500)"`
	Description string `json:"description" gorm:"type:text"`

	// AISummary is not set by the worker: the quality classifier returns
	// only the videos it keeps, so rows it inserts leave this empty.
	AISummary string `json:"ai_summary,omitempty" gorm:"type:text"`

	ViralityScore int  `json:"virality_score" gorm:"not null"` // integer in [1,10]
	IsViral       bool `json:"is_viral" gorm:"not null"`

	StoragePath string `json:"storage_path,omitempty" gorm:"type:varchar(500)"`

	// ViewsAtCapture denormalizes the view count seen during the cycle
	// that accepted this video, so downstream consumers don't need to
	// rejoin against the now-discarded in-memory Video.
	ViewsAtCapture int64 `json:"views_at_capture"`

	QualityDecisionReason string `json:"quality_decision_reason" gorm:"type:varchar(64)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// StoredVideoRepository is the stored-video repository used by the HTTP
// layer: check existence by external id, insert, list a page, and get one
// by id. Source and topic listing live on their own repositories.
type StoredVideoRepository interface {
	ExistsByExternalID(externalID string) (bool, error)
	Insert(video *StoredVideo) error
	List(limit, offset int) ([]*StoredVideo, error)
	GetByID(id string) (*StoredVideo, error)
}

// ErrDuplicateExternalID is returned by Insert when a row with the same
// ExternalID already exists. The worker treats this as a no-op "skipped"
// outcome, not an error.
var ErrDuplicateExternalID = errors.New("conflict: duplicate external_id")
