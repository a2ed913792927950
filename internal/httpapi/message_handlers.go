package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"chat-backend/internal/files"
	"chat-backend/internal/logger"
	"chat-backend/internal/models"
	"chat-backend/internal/queue"
	"chat-backend/internal/telemetry"
	"chat-backend/internal/validation"
)

type sendRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	msgs, err := s.queue.Messages()
	if err != nil {
		logger.Errorf("Failed to list messages: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	payload := formatMessages(msgs, user.ID)
	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"messages": payload,
		"count":    len(payload),
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	text := validation.SanitizeString(req.Text)
	// The cap applies to the sanitized text as stored, so escaped
	// entities count at their expanded length.
	if len(text) > s.cfg.Chat.MaxTextLength {
		respondError(w, http.StatusBadRequest, "Message too long (max "+strconv.Itoa(s.cfg.Chat.MaxTextLength)+" characters)")
		return
	}

	id, err := s.queue.AddMessage(user.ID, text, models.TypeText, nil)
	if queue.IsValidation(err) {
		respondError(w, http.StatusBadRequest, "Message text is required")
		return
	}
	if err != nil {
		logger.Errorf("Failed to add message: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	msg, err := s.queue.Get(id)
	if err != nil || msg == nil {
		logger.Errorf("Failed to load created message %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	telemetry.MessagesSent.Inc()
	respondSuccess(w, http.StatusCreated, "Message sent successfully", map[string]interface{}{
		"message": formatMessage(msg, user.ID),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	meta, err := s.files.Save(file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if errors.Is(err, files.ErrTooLarge) || errors.Is(err, files.ErrUnsupportedType) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Errorf("Failed to store upload: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	id, err := s.queue.AddMessage(user.ID, "", meta.Type, &queue.Attachment{
		Filename: meta.Filename,
		URL:      meta.URL,
		Size:     meta.Size,
		MimeType: meta.MimeType,
	})
	if err != nil {
		// The message row never existed; do not leave the file behind.
		if rerr := s.files.Remove(meta.Filename); rerr != nil {
			logger.Warningf("Failed to clean up orphaned upload %s: %v", meta.Filename, rerr)
		}
		logger.Errorf("Failed to add upload message: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	msg, err := s.queue.Get(id)
	if err != nil || msg == nil {
		logger.Errorf("Failed to load created message %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	telemetry.Uploads.Inc()
	respondSuccess(w, http.StatusCreated, "File uploaded successfully", map[string]interface{}{
		"message": formatMessage(msg, user.ID),
	})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	cursor := uint(0)
	if lastID := r.URL.Query().Get("lastId"); lastID != "" {
		parsed, err := strconv.ParseUint(lastID, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid lastId")
			return
		}
		cursor = uint(parsed)
	}

	start := time.Now()
	msgs, err := s.poller.Poll(r.Context(), cursor)
	telemetry.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Errorf("Poll failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Polling failed")
		return
	}

	payload := formatMessages(msgs, user.ID)
	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"messages": payload,
		"count":    len(payload),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Message ID is required")
		return
	}

	deleted, err := s.queue.Delete(uint(id), user.ID)
	if err != nil {
		logger.Errorf("Failed to delete message %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Message not found or not authorized")
		return
	}

	telemetry.MessagesDeleted.Inc()
	respondSuccess(w, http.StatusOK, "Message deleted", map[string]interface{}{
		"deleted": true,
	})
}
