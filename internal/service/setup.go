package service

import (
	"time"

	"chat-backend/internal/crash"
	"chat-backend/internal/logger"
)

// StartSessionSweeper runs a periodic cleanup of expired sessions.
func StartSessionSweeper(auth *AuthService, interval time.Duration) {
	crash.SafeGoroutine("session-sweeper", func() {
		logger.Infof("Starting session sweeper with interval: %v", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := auth.SweepExpired(); err != nil {
				logger.Warningf("Session sweep failed: %v", err)
			}
		}
	})
}
