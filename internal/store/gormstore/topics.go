package gormstore

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// topicRepository implements models.TopicRepository.
type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new repository instance.
func NewTopicRepository(db *gorm.DB) models.TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}
	return r.db.Create(topic).Error
}

func (r *topicRepository) GetByID(id string) (*models.Topic, error) {
	var t models.Topic
	err := r.db.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrTopicNotFound
	}
	return &t, err
}

func (r *topicRepository) List() ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.Find(&topics).Error
	return topics, err
}

func (r *topicRepository) Update(topic *models.Topic) error {
	return r.db.Save(topic).Error
}

func (r *topicRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Topic{}).Error
}
