package models

import "time"

// Topic is a tracked keyword that drives the viral scorer's per-video
// keyword-match signal.
type Topic struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Keyword     string    `json:"keyword" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TopicRepository defines CRUD access to Topic rows.
type TopicRepository interface {
	Create(topic *Topic) error
	GetByID(id string) (*Topic, error)
	List() ([]*Topic, error)
	Update(topic *Topic) error
	Delete(id string) error
}
