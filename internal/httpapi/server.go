// Package httpapi is the HTTP boundary of the chat server: routing, CORS,
// cookie-session authentication, rate limiting and JSON envelopes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"chat-backend/internal/config"
	"chat-backend/internal/files"
	"chat-backend/internal/logger"
	"chat-backend/internal/models"
	"chat-backend/internal/queue"
	"chat-backend/internal/ratelimit"
	"chat-backend/internal/telemetry"
)

// Authenticator is the auth surface the handlers consume.
type Authenticator interface {
	Register(username, email, password string) (*models.User, *models.Session, error)
	Login(login, password string) (*models.User, *models.Session, error)
	Logout(token string) error
	UserForToken(token string) (*models.User, error)
}

// ChatQueue is the retention engine surface the handlers consume.
type ChatQueue interface {
	AddMessage(userID uint, text string, msgType string, att *queue.Attachment) (uint, error)
	Get(id uint) (*models.Message, error)
	Messages() ([]models.Message, error)
	Delete(messageID uint, requesterID uint) (bool, error)
}

// MessagePoller answers long-poll requests.
type MessagePoller interface {
	Poll(ctx context.Context, cursor uint) ([]models.Message, error)
}

// Server wires the chat API onto an http.Server.
type Server struct {
	cfg    *config.Config
	auth   Authenticator
	queue  ChatQueue
	poller MessagePoller
	files  *files.Store

	registerLimiter *ratelimit.Limiter
	loginLimiter    *ratelimit.Limiter
	sendLimiter     *ratelimit.Limiter
	uploadLimiter   *ratelimit.Limiter

	httpServer *http.Server
}

// NewServer creates the API server with per-endpoint rate budgets.
func NewServer(cfg *config.Config, auth Authenticator, q ChatQueue, poller MessagePoller, fileStore *files.Store) *Server {
	s := &Server{
		cfg:    cfg,
		auth:   auth,
		queue:  q,
		poller: poller,
		files:  fileStore,

		registerLimiter: ratelimit.New(ratelimit.Limit{Requests: 10, Window: time.Hour}),
		loginLimiter:    ratelimit.New(ratelimit.Limit{Requests: 20, Window: 15 * time.Minute}),
		sendLimiter:     ratelimit.New(ratelimit.Limit{Requests: 60, Window: time.Minute}),
		uploadLimiter:   ratelimit.New(ratelimit.Limit{Requests: 30, Window: time.Minute}),
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: s.Routes(),
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", telemetry.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.rateLimited(s.registerLimiter, s.handleRegister)).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.rateLimited(s.loginLimiter, s.handleLogin)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)

	api.HandleFunc("/messages", s.requireAuth(s.handleList)).Methods(http.MethodGet)
	api.HandleFunc("/messages", s.requireAuth(s.rateLimited(s.sendLimiter, s.handleSend))).Methods(http.MethodPost)
	api.HandleFunc("/messages/upload", s.requireAuth(s.rateLimited(s.uploadLimiter, s.handleUpload))).Methods(http.MethodPost)
	api.HandleFunc("/messages/poll", s.requireAuth(s.handlePoll)).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id:[0-9]+}", s.requireAuth(s.handleDelete)).Methods(http.MethodDelete)

	// Stored attachments
	uploadsFs := afero.NewHttpFs(s.files.Uploads())
	r.PathPrefix(s.cfg.Upload.URLPrefix).Handler(
		http.StripPrefix(s.cfg.Upload.URLPrefix, http.FileServer(uploadsFs.Dir("/"))),
	).Methods(http.MethodGet)

	return s.corsMiddleware(r)
}

// Start starts the HTTP server, optionally with TLS.
func (s *Server) Start() error {
	logger.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if s.cfg.Server.CertFile != "" && s.cfg.Server.KeyFile != "" {
		logger.Infof("Using TLS with cert: %s, key: %s", s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
		return s.httpServer.ListenAndServeTLS(s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
