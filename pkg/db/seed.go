package db

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
)

// Seed inserts the initial admin account if it does not already exist.
func Seed(gdb *gorm.DB, cfg *config.Config) error {
	superEmail := "admin@example.com"

	var count int64
	if err := gdb.Model(&models.User{}).Where("email = ?", superEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &models.User{
		ID:       uuid.New().String(),
		Email:    superEmail,
		Password: string(hashed),
		Role:     string(models.RoleAdmin),
		Status:   string(models.StatusActive),
	}
	return gdb.Create(u).Error
}
