package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chat-backend/internal/models"
)

var (
	// ErrUsernameTaken means registration used an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken means registration used an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown user and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the persistence contract for users.
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByLogin(login string) (*models.User, error)
}

// SessionStore is the persistence contract for login sessions.
type SessionStore interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	DeleteByToken(token string) error
	DeleteExpired(now time.Time) error
}

// AuthService implements registration, login and session resolution.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	lifetime time.Duration
}

// NewAuthService creates an AuthService with the given session lifetime.
func NewAuthService(users UserStore, sessions SessionStore, lifetime time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, lifetime: lifetime}
}

// Register creates a new user after uniqueness checks and opens a session.
// Field format validation happens at the HTTP boundary.
func (s *AuthService) Register(username, email, password string) (*models.User, *models.Session, error) {
	existing, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrUsernameTaken
	}

	existing, err = s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login verifies credentials and opens a session. The login value may be a
// username or an email address. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(login, password string) (*models.User, *models.Session, error) {
	user, err := s.users.GetByLogin(login)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout destroys the session for the given token.
func (s *AuthService) Logout(token string) error {
	return s.sessions.DeleteByToken(token)
}

// UserForToken resolves a session token to its user. Returns nil for a
// missing or expired session.
func (s *AuthService) UserForToken(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, nil
	}
	return s.users.GetByID(session.UserID)
}

// SweepExpired removes sessions past their lifetime.
func (s *AuthService) SweepExpired() error {
	return s.sessions.DeleteExpired(time.Now())
}

func (s *AuthService) openSession(userID uint) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.lifetime),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
