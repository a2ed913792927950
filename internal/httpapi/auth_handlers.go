package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chat-backend/internal/logger"
	"chat-backend/internal/models"
	"chat-backend/internal/service"
	"chat-backend/internal/validation"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	username := validation.SanitizeString(req.Username)
	email := validation.SanitizeEmail(req.Email)

	switch {
	case !validation.Username(username):
		respondError(w, http.StatusBadRequest, "Username must be 3-50 alphanumeric characters or underscores")
		return
	case !validation.Email(email):
		respondError(w, http.StatusBadRequest, "Email must be a valid email")
		return
	case !validation.Password(req.Password):
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, session, err := s.auth.Register(username, email, req.Password)
	if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Errorf("Registration failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.setSessionCookie(w, session)
	respondSuccess(w, http.StatusCreated, "Registration successful", map[string]interface{}{
		"user": userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	login := validation.SanitizeString(req.Username)
	if login == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, session, err := s.auth.Login(login, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		logger.Errorf("Login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.setSessionCookie(w, session)
	respondSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user": userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := s.sessionToken(r); token != "" {
		if err := s.auth.Logout(token); err != nil {
			logger.Warningf("Failed to delete session: %v", err)
		}
	}
	s.clearSessionCookie(w)
	respondSuccess(w, http.StatusOK, "Logged out", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"user": userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.App.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.App.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
