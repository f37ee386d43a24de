package services

import (
	"fmt"

	"github.com/animehub/backend/internal/config"
	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/pkg/crypto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, cfg: cfg}
}

func (s *AdminService) GetConfig() *config.Config { return s.cfg }

// CreateDefaultAdmin creates the default admin user if it doesn't exist
func (s *AdminService) CreateDefaultAdmin() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", s.cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Hash password
	hashedPassword, err := crypto.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Create admin user
	admin := &models.User{
		Username:    s.cfg.AdminUsername,
		Email:       s.cfg.AdminEmail,
		Password:    hashedPassword,
		DisplayName: "Administrator",
		IsAdmin:     true,
		IsActive:    true,
		IsAdult:     true,
	}

	return s.db.Create(admin).Error
}

// ResetUserPassword resets a user's password and returns the new one
func (s *AdminService) ResetUserPassword(userID uuid.UUID) (string, error) {
	// Generate new password
	newPassword := crypto.GenerateRandomPassword(12)

	// Hash password
	hashedPassword, err := crypto.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}

	// Update user password
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword)
	if result.Error != nil {
		return "", result.Error
	}

	if result.RowsAffected == 0 {
		return "", fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	return newPassword, nil
}
