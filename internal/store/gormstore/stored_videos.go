package gormstore

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// storedVideoRepository implements models.StoredVideoRepository, the
// read/insert contract the HTTP layer and worker share.
type storedVideoRepository struct {
	db *gorm.DB
}

// NewStoredVideoRepository creates a new repository instance.
func NewStoredVideoRepository(db *gorm.DB) models.StoredVideoRepository {
	return &storedVideoRepository{db: db}
}

func (r *storedVideoRepository) ExistsByExternalID(externalID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.StoredVideo{}).Where("external_id = ?", externalID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *storedVideoRepository) Insert(video *models.StoredVideo) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	err := r.db.Create(video).Error
	if isDuplicateEntry(err) {
		return models.ErrDuplicateExternalID
	}
	return err
}

func (r *storedVideoRepository) List(limit, offset int) ([]*models.StoredVideo, error) {
	var videos []*models.StoredVideo
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&videos).Error
	return videos, err
}

func (r *storedVideoRepository) GetByID(id string) (*models.StoredVideo, error) {
	var v models.StoredVideo
	err := r.db.Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrStoredVideoNotFound
	}
	return &v, err
}
