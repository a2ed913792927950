package models

import "time"

// Session is a server-side login session referenced by the session cookie.
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

// Expired reports whether the session is past its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
