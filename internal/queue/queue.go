// Package queue implements the chat room's bounded message retention: the
// message table behaves like a fixed-capacity circular queue where inserting
// beyond capacity evicts the oldest rows, together with any attachment files
// they own.
package queue

import (
	"sync"

	"chat-backend/internal/logger"
	"chat-backend/internal/models"
	"chat-backend/internal/telemetry"
)

// MessageStore is the persistence contract the queue needs from the
// message table.
type MessageStore interface {
	Count() (int64, error)
	Oldest(n int) ([]models.Message, error)
	Insert(msg *models.Message) error
	List(limit int) ([]models.Message, error)
	After(cursor uint) ([]models.Message, error)
	GetByID(id uint) (*models.Message, error)
	GetOwned(id uint, userID uint) (*models.Message, error)
	DeleteByID(id uint) error
}

// FileRemover deletes stored attachment files by name.
type FileRemover interface {
	Remove(filename string) error
}

// Attachment carries the stored-file metadata recorded on non-text messages.
type Attachment struct {
	Filename string
	URL      string
	Size     int64
	MimeType string
}

// Queue enforces the retention limit over a message store. The mutex
// serializes writers so the capacity bound is strict within this process;
// two separate processes sharing one database can still transiently exceed
// the limit by the number of concurrent inserts.
type Queue struct {
	mu    sync.Mutex
	store MessageStore
	files FileRemover
	limit int
}

// New creates a Queue over the given store with a fixed capacity.
func New(store MessageStore, files FileRemover, limit int) *Queue {
	return &Queue{store: store, files: files, limit: limit}
}

// Limit returns the configured capacity.
func (q *Queue) Limit() int {
	return q.limit
}

// Count returns the current number of stored messages.
func (q *Queue) Count() (int64, error) {
	return q.store.Count()
}

// EnforceLimit deletes oldest messages until an insert would fit within
// the capacity.
func (q *Queue) EnforceLimit() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enforceLimit()
}

// enforceLimit must be called with q.mu held.
func (q *Queue) enforceLimit() error {
	count, err := q.store.Count()
	if err != nil {
		return err
	}
	if count < int64(q.limit) {
		return nil
	}

	deficit := int(count) - q.limit + 1
	victims, err := q.store.Oldest(deficit)
	if err != nil {
		return err
	}

	for i := range victims {
		q.removeAttachment(&victims[i])
		if err := q.store.DeleteByID(victims[i].ID); err != nil {
			return err
		}
		telemetry.MessagesEvicted.Inc()
		logger.Infof("Evicted message %d (created %s)", victims[i].ID, victims[i].CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// removeAttachment deletes the message's file, if any. File deletion is
// best-effort: the message row is removed regardless.
func (q *Queue) removeAttachment(msg *models.Message) {
	if !msg.HasFile() {
		return
	}
	if err := q.files.Remove(msg.FileName); err != nil {
		logger.Warningf("Failed to remove attachment %s for message %d: %v", msg.FileName, msg.ID, err)
	}
}

// AddMessage validates the input, makes room, and inserts a new message.
// Returns the assigned message id.
func (q *Queue) AddMessage(userID uint, text string, msgType string, att *Attachment) (uint, error) {
	if msgType == models.TypeText {
		if text == "" {
			return 0, &ValidationError{Field: "text", Reason: "message text is required"}
		}
	} else if att == nil {
		return 0, &ValidationError{Field: "file", Reason: "attachment data is required for " + msgType + " messages"}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.enforceLimit(); err != nil {
		return 0, err
	}

	msg := models.Message{
		UserID: userID,
		Text:   text,
		Type:   msgType,
	}
	if att != nil {
		msg.FileName = att.Filename
		msg.FileURL = att.URL
		msg.FileSize = att.Size
		msg.MimeType = att.MimeType
	}

	if err := q.store.Insert(&msg); err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// Get returns a message by id, or nil when it no longer exists.
func (q *Queue) Get(id uint) (*models.Message, error) {
	return q.store.GetByID(id)
}

// Messages returns the current live window, oldest first.
func (q *Queue) Messages() ([]models.Message, error) {
	return q.store.List(q.limit)
}

// Delete removes a message if and only if it belongs to requesterID.
// Returns false when the message does not exist or is owned by someone
// else; the store is left unchanged in that case.
func (q *Queue) Delete(messageID uint, requesterID uint) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	msg, err := q.store.GetOwned(messageID, requesterID)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}

	q.removeAttachment(msg)
	if err := q.store.DeleteByID(msg.ID); err != nil {
		return false, err
	}
	return true, nil
}
