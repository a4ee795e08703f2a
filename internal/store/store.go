// Package store defines the persistence contract the pipeline and worker
// depend on (spec.md §6): list topics, list sources (filtered by status
// by the caller), check existence by external id, and insert. A concrete
// implementation lives in internal/store/gormstore.
package store

import "github.com/jibe0123/mysteryfactory/internal/models"

// Store is the four-operation contract the core depends on.
type Store interface {
	ListTopics() ([]*models.Topic, error)
	ListSources() ([]*models.Source, error)
	ExistsByExternalID(externalID string) (bool, error)
	InsertVideo(video *models.StoredVideo) error
}
