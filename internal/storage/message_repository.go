package storage

import (
	"errors"

	"chat-backend/internal/models"

	"gorm.io/gorm"
)

// MessageRepository handles database operations for Message
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// MigrateTable ensures the Message table exists
func (r *MessageRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Message{})
}

// Count returns the number of stored messages
func (r *MessageRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.Message{}).Count(&count)
	return count, result.Error
}

// Oldest returns the n oldest messages ordered by creation time, with
// message id as the tie-breaker.
func (r *MessageRepository) Oldest(n int) ([]models.Message, error) {
	var msgs []models.Message
	result := r.db.Order("created_at ASC, id ASC").Limit(n).Find(&msgs)
	return msgs, result.Error
}

// Insert stores a new message and fills in its assigned id
func (r *MessageRepository) Insert(msg *models.Message) error {
	return r.db.Create(msg).Error
}

// List returns up to limit messages ordered oldest first, with sender data
func (r *MessageRepository) List(limit int) ([]models.Message, error) {
	var msgs []models.Message
	result := r.db.Preload("User").Order("created_at ASC, id ASC").Limit(limit).Find(&msgs)
	return msgs, result.Error
}

// After returns all messages with id greater than cursor, oldest first
func (r *MessageRepository) After(cursor uint) ([]models.Message, error) {
	var msgs []models.Message
	result := r.db.Preload("User").Where("id > ?", cursor).Order("created_at ASC, id ASC").Find(&msgs)
	return msgs, result.Error
}

// GetByID returns a message by id, or nil if it does not exist
func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var msg models.Message
	result := r.db.Preload("User").Where("id = ?", id).First(&msg)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &msg, nil
}

// GetOwned returns the message with the given id only if it belongs to
// userID, or nil if no such row exists.
func (r *MessageRepository) GetOwned(id uint, userID uint) (*models.Message, error) {
	var msg models.Message
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&msg)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &msg, nil
}

// DeleteByID removes a message row by id
func (r *MessageRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Message{}, id).Error
}
