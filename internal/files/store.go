// Package files stores uploaded attachments on a filesystem and maps MIME
// types to message type categories.
package files

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"chat-backend/internal/config"
	"chat-backend/internal/models"
)

var (
	// ErrTooLarge rejects uploads over the configured size limit.
	ErrTooLarge = errors.New("file size exceeds limit")
	// ErrUnsupportedType rejects uploads with a disallowed MIME type.
	ErrUnsupportedType = errors.New("file type not allowed")
)

// allowed MIME types per message type category
var mimeCategories = map[string]string{
	"image/jpeg": models.TypeImage,
	"image/png":  models.TypeImage,
	"image/gif":  models.TypeImage,
	"image/webp": models.TypeImage,

	"video/mp4":  models.TypeVideo,
	"video/webm": models.TypeVideo,
	"video/ogg":  models.TypeVideo,

	"audio/mpeg": models.TypeAudio,
	"audio/ogg":  models.TypeAudio,
	"audio/wav":  models.TypeAudio,
	"audio/webm": models.TypeAudio,

	"application/pdf":    models.TypeFile,
	"application/msword": models.TypeFile,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.TypeFile,
	"text/plain": models.TypeFile,
}

var basenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileMeta describes a stored attachment.
type FileMeta struct {
	Filename     string
	OriginalName string
	URL          string
	Size         int64
	MimeType     string
	Type         string
}

// Store writes and removes attachment files under a single directory.
type Store struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
	maxSize   int64
}

// NewStore creates a Store rooted at the configured upload directory.
func NewStore(fs afero.Fs, cfg config.UploadConfig) (*Store, error) {
	if err := fs.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		fs:        fs,
		dir:       cfg.Directory,
		urlPrefix: cfg.URLPrefix,
		maxSize:   cfg.MaxSize,
	}, nil
}

// TypeForMime returns the message type category for a MIME type, or the
// empty string when the type is not allowed.
func TypeForMime(mimeType string) string {
	return mimeCategories[mimeType]
}

// Save stores the uploaded content under a unique filename and returns its
// metadata. declaredSize is the client-reported size and is validated both
// up front and against the bytes actually written.
func (s *Store) Save(r io.Reader, originalName, mimeType string, declaredSize int64) (*FileMeta, error) {
	if declaredSize > s.maxSize {
		return nil, ErrTooLarge
	}
	category := TypeForMime(mimeType)
	if category == "" {
		return nil, ErrUnsupportedType
	}

	filename := uniqueFilename(originalName)
	path := filepath.Join(s.dir, filename)

	f, err := s.fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > s.maxSize {
		_ = s.fs.Remove(path)
		return nil, ErrTooLarge
	}

	return &FileMeta{
		Filename:     filename,
		OriginalName: originalName,
		URL:          s.urlPrefix + filename,
		Size:         written,
		MimeType:     mimeType,
		Type:         category,
	}, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(filename string) error {
	// Reject path components; stored names never contain separators.
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename: %s", filename)
	}
	err := s.fs.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		return err
	}
	return nil
}

// Uploads returns a filesystem rooted at the upload directory, for serving
// stored attachments over HTTP.
func (s *Store) Uploads() afero.Fs {
	return afero.NewBasePathFs(s.fs, s.dir)
}

// uniqueFilename builds a collision-free filename that keeps the original
// extension and a sanitized basename.
func uniqueFilename(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = basenameSanitizer.ReplaceAllString(base, "")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
}

// FormatSize renders a byte count for display, mirroring the size labels
// the web client shows next to attachments.
func FormatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
