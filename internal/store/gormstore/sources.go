package gormstore

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// sourceRepository implements models.SourceRepository.
type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new repository instance.
func NewSourceRepository(db *gorm.DB) models.SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) Create(source *models.Source) error {
	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	return r.db.Create(source).Error
}

func (r *sourceRepository) GetByID(id string) (*models.Source, error) {
	var s models.Source
	err := r.db.Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrSourceNotFound
	}
	return &s, err
}

func (r *sourceRepository) List(limit, offset int) ([]*models.Source, error) {
	var sources []*models.Source
	err := r.db.Limit(limit).Offset(offset).Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) ListActive() ([]*models.Source, error) {
	var sources []*models.Source
	err := r.db.Where("status = ?", models.SourceActive).Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) Update(source *models.Source) error {
	return r.db.Save(source).Error
}

func (r *sourceRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Source{}).Error
}
