package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"chat-backend/internal/models"
	"chat-backend/internal/ratelimit"
	"chat-backend/internal/telemetry"
)

type ctxKey int

const userKey ctxKey = iota

// currentUser returns the authenticated user stored by requireAuth.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// corsMiddleware allows the configured frontend origin with credentials.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.App.FrontendURL)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the session cookie to a user and stores it in the
// request context. Unauthenticated requests get a 401 envelope.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessionToken(r)
		user, err := s.auth.UserForToken(token)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}
		if user == nil {
			respondError(w, http.StatusUnauthorized, "Please log in to continue")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// rateLimited rejects requests over the endpoint's budget. The identifier
// is the authenticated user id when present, the client IP otherwise.
func (s *Server) rateLimited(limiter *ratelimit.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(identifier(r)) {
			telemetry.RateLimited.Inc()
			respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next(w, r)
	}
}

func identifier(r *http.Request) string {
	if user := currentUser(r); user != nil {
		return fmt.Sprintf("user_%d", user.ID)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip_" + host
}

// sessionToken extracts the session cookie value, if any.
func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
