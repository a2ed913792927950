package storage

import (
	"errors"

	"chat-backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// MigrateTable ensures the User table exists
func (r *UserRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.User{})
}

// Create stores a new user and fills in its assigned id
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID returns a user by id, or nil if it does not exist
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// GetByUsername returns a user by exact username, or nil if not found
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail returns a user by email, or nil if not found
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// GetByLogin returns a user whose username or email matches login
func (r *UserRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ? OR email = ?", login, login).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
