// Package gormstore is the GORM/MySQL implementation of store.Store, plus
// the CRUD repositories the HTTP handlers use for sources, topics, and
// stored videos. Grounded on the teacher's internal/repositories/*.go
// (same db *gorm.DB-holding struct, same uuid.New()-on-Create idiom)
// generalized to drop tenant scoping (spec.md's multi-tenancy Non-goal).
package gormstore

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// mysqlDuplicateEntryCode is the MySQL error number for a unique-key
// violation (ER_DUP_ENTRY), used to translate Insert conflicts into
// models.ErrDuplicateExternalID rather than a generic database error.
const mysqlDuplicateEntryCode = 1062

// Store implements store.Store over a *gorm.DB.
type Store struct {
	db *gorm.DB
}

// New builds a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListTopics returns every tracked topic.
func (s *Store) ListTopics() ([]*models.Topic, error) {
	var topics []*models.Topic
	err := s.db.Find(&topics).Error
	return topics, err
}

// ListSources returns every source; callers filter by status.
func (s *Store) ListSources() ([]*models.Source, error) {
	var sources []*models.Source
	err := s.db.Find(&sources).Error
	return sources, err
}

// ExistsByExternalID reports whether a StoredVideo with the given
// external id has already been persisted.
func (s *Store) ExistsByExternalID(externalID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.StoredVideo{}).Where("external_id = ?", externalID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertVideo persists a StoredVideo. A unique-key conflict on
// external_id is translated to models.ErrDuplicateExternalID so callers
// can treat it as an idempotent no-op rather than a hard error.
func (s *Store) InsertVideo(video *models.StoredVideo) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	err := s.db.Create(video).Error
	if isDuplicateEntry(err) {
		return models.ErrDuplicateExternalID
	}
	return err
}

func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntryCode
	}
	return false
}
