package models

import "time"

// Message type values. Non-text messages carry exactly one attachment.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeVideo = "video"
	TypeAudio = "audio"
	TypeFile  = "file"
)

// Message is a single chat message row. IDs are auto-increment and never
// reused; clients use the highest seen ID as their polling cursor.
type Message struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID uint   `gorm:"index;not null"`
	User   User   `gorm:"foreignKey:UserID"`
	Text   string `gorm:"type:text"`
	Type   string `gorm:"size:16;not null;default:'text'"`

	// Attachment columns, empty for text messages
	FileName string `gorm:"size:255"`
	FileURL  string `gorm:"size:512"`
	FileSize int64
	MimeType string `gorm:"size:128"`

	CreatedAt time.Time `gorm:"index"`
}

// HasFile reports whether the message owns an attachment.
func (m *Message) HasFile() bool {
	return m.FileName != ""
}
