package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/sl"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenInvalid       = errors.New("token not found or expired")
)

const passwordSpecials = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Repository is the account and session store behind the auth service.
type Repository interface {
	CreateUser(user entity.User) error
	GetUserByEmail(email string) (*entity.User, error)
	SaveSession(session entity.Session) error
	GetSession(token string) (*entity.Session, error)
	DeleteSession(token string) error
}

// Service registers accounts, issues access tokens and resolves them
// back to identities. Resolved sessions are cached in memory so the
// hot path of request authentication rarely touches the store.
type Service struct {
	repository Repository
	tokenTTL   time.Duration
	mu         sync.RWMutex
	sessions   map[string]entity.Session
	log        *slog.Logger
}

func NewAuthService(logger *slog.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		tokenTTL: tokenTTL,
		sessions: make(map[string]entity.Session),
		log:      logger.With(sl.Module("auth-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

// Register creates a new account after enforcing the password policy.
func (s *Service) Register(email, password string) (*entity.User, error) {
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.User{
		Email:          email,
		HashedPassword: string(hash),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repository.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", slog.String("email", email))
	return &user, nil
}

// Login verifies the credentials and issues a fresh access token.
// The same error comes back for an unknown email and a wrong password.
func (s *Service) Login(email, password string) (*entity.Session, error) {
	user, err := s.repository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := entity.Session{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	if err := s.repository.SaveSession(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.log.Info("user logged in", slog.String("email", email), sl.Secret("token", session.Token))
	return &session, nil
}

// ValidateToken resolves a token to the identity it was issued to.
func (s *Service) ValidateToken(token string) (string, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		stored, err := s.repository.GetSession(token)
		if err != nil {
			return "", fmt.Errorf("lookup session: %w", err)
		}
		if stored == nil {
			return "", ErrTokenInvalid
		}
		session = *stored
		s.mu.Lock()
		s.sessions[token] = session
		s.mu.Unlock()
	}

	if session.Expired(time.Now().UTC()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		_ = s.repository.DeleteSession(token)
		return "", ErrTokenInvalid
	}

	return session.Email, nil
}

// AuthenticateByToken is ValidateToken shaped for the REST middleware.
func (s *Service) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	email, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &entity.UserAuth{
		Email: email,
		Token: token,
	}, nil
}

// checkPassword enforces the registration password policy: at least 8
// characters, one digit and one special character.
func checkPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	hasDigit := false
	for _, c := range password {
		if unicode.IsDigit(c) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return errors.New("password must contain at least 1 number")
	}

	if !strings.ContainsAny(password, passwordSpecials) {
		return fmt.Errorf("password must contain at least 1 special character from: %s", passwordSpecials)
	}

	return nil
}
