package models

import "time"

// SourceStatus is the activity state of a tracked creator account.
type SourceStatus string

const (
	SourceActive   SourceStatus = "active"
	SourceInactive SourceStatus = "inactive"
)

// Source is a creator account the worker polls for recent uploads. Only
// active sources are consulted by the worker.
type Source struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Platform  Platform     `json:"platform" gorm:"type:varchar(20);not null;index"`
	URL       string       `json:"url" gorm:"type:varchar(500);not null"`
	Name      string       `json:"name" gorm:"type:varchar(255)"`
	Status    SourceStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'active'"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

// SourceRepository defines CRUD access to Source rows.
type SourceRepository interface {
	Create(source *Source) error
	GetByID(id string) (*Source, error)
	List(limit, offset int) ([]*Source, error)
	ListActive() ([]*Source, error)
	Update(source *Source) error
	Delete(id string) error
}
