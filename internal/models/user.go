package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an operator account allowed to manage sources, topics, and to
// trigger worker cycles through the HTTP layer. There is no multi-tenant
// isolation: a single deployment serves one operator team.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(50);not null;default:'viewer'"`
	Status    string         `json:"status" gorm:"type:varchar(50);not null;default:'active'"`
	LastLogin *time.Time     `json:"last_login,omitempty" gorm:"type:timestamp"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// UserRole defines operator roles.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

// UserStatus defines account statuses.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// UserRepository defines the interface for operator account operations.
type UserRepository interface {
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	UpdateLastLogin(id string) error
}

// IsActive reports whether the account can authenticate.
func (u *User) IsActive() bool {
	return u.Status == string(StatusActive) && !u.DeletedAt.Valid
}

// HasPermission reports whether the role grants the named permission.
// Only two permissions exist: "read" (everyone) and "write" (admin only,
// gating source/topic mutation and manual worker triggers).
func (u *User) HasPermission(permission string) bool {
	switch UserRole(u.Role) {
	case RoleAdmin:
		return true
	case RoleViewer:
		return permission == "read"
	default:
		return false
	}
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}
