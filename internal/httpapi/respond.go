package httpapi

import (
	"encoding/json"
	"net/http"

	"chat-backend/internal/files"
	"chat-backend/internal/models"
)

// JSON envelopes shared by every endpoint.
type successEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: message})
}

const timestampLayout = "2006-01-02 15:04:05"

type userPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type filePayload struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Size          int64  `json:"size"`
	MimeType      string `json:"mimeType"`
	FormattedSize string `json:"formattedSize"`
}

type messagePayload struct {
	ID        uint         `json:"id"`
	Text      string       `json:"text"`
	Type      string       `json:"type"`
	IsUser    bool         `json:"isUser"`
	Timestamp string       `json:"timestamp"`
	User      userPayload  `json:"user"`
	FileData  *filePayload `json:"fileData"`
}

// formatMessage renders a message row for the client. requesterID drives
// the isUser flag so the frontend can align own messages.
func formatMessage(msg *models.Message, requesterID uint) messagePayload {
	p := messagePayload{
		ID:        msg.ID,
		Text:      msg.Text,
		Type:      msg.Type,
		IsUser:    msg.UserID == requesterID,
		Timestamp: msg.CreatedAt.Format(timestampLayout),
		User: userPayload{
			ID:       msg.User.ID,
			Username: msg.User.Username,
			Email:    msg.User.Email,
		},
	}
	if msg.HasFile() {
		p.FileData = &filePayload{
			Name:          msg.FileName,
			URL:           msg.FileURL,
			Size:          msg.FileSize,
			MimeType:      msg.MimeType,
			FormattedSize: files.FormatSize(msg.FileSize),
		}
	}
	return p
}

func formatMessages(msgs []models.Message, requesterID uint) []messagePayload {
	out := make([]messagePayload, 0, len(msgs))
	for i := range msgs {
		out = append(out, formatMessage(&msgs[i], requesterID))
	}
	return out
}
