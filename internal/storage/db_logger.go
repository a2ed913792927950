package storage

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// GormLogger routes gorm's log output to a dedicated writer.
type GormLogger struct {
	out                       *log.Logger
	LogLevel                  logger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// NewGormLogger creates a gorm logger adapter writing to w with sane defaults.
func NewGormLogger(w io.Writer) logger.Interface {
	return &GormLogger{
		out:                       log.New(w, "", log.Ldate|log.Ltime),
		LogLevel:                  logger.Warn,
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	}
}

// LogMode sets the log level
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info logs info-level messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		l.out.Printf("[INFO] "+msg, data...)
	}
}

// Warn logs warning-level messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		l.out.Printf("[WARN] "+msg, data...)
	}
}

// Error logs error-level messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		l.out.Printf("[ERROR] "+msg, data...)
	}
}

// Trace logs SQL execution
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	source := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= logger.Error && (!errors.Is(err, gorm.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		l.out.Printf("[ERROR] [%.3fms] [%s] %s; error=%v", float64(elapsed.Nanoseconds())/1e6, source, sql, err)
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= logger.Warn:
		l.out.Printf("[WARN] [%.3fms] [%s] %s; SLOW SQL >= %v, rows=%v", float64(elapsed.Nanoseconds())/1e6, source, sql, l.SlowThreshold, rows)
	case l.LogLevel == logger.Info:
		l.out.Printf("[INFO] [%.3fms] [%s] %s; rows=%v", float64(elapsed.Nanoseconds())/1e6, source, sql, rows)
	}
}
