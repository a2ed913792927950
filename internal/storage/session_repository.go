package storage

import (
	"errors"
	"time"

	"chat-backend/internal/models"

	"gorm.io/gorm"
)

// SessionRepository handles database operations for Session
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// MigrateTable ensures the Session table exists
func (r *SessionRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Session{})
}

// Create stores a new session
func (r *SessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetByToken returns a session by token, or nil if it does not exist
func (r *SessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	result := r.db.Where("token = ?", token).First(&session)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &session, nil
}

// DeleteByToken removes a session row by token
func (r *SessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpired removes all sessions past their lifetime
func (r *SessionRepository) DeleteExpired(now time.Time) error {
	return r.db.Where("expires_at < ?", now).Delete(&models.Session{}).Error
}
