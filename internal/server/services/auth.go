// Package services contains server-side business logic. This file implements
// AuthService: signup, login and session verification.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	usersrepo "github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/google/uuid"
)

// MaxPasswordLen bounds the argon2 input.
const MaxPasswordLen = 1024

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService verifies credentials and issues stateless session tokens.
// Logout has no server side: a token stays valid until it expires.
type AuthService struct {
	users     usersrepo.Repository
	jwtSecret []byte
	validity  time.Duration
	argon     auth.ArgonParams
	logger    logging.Logger

	// hash of a random password, verified against on unknown emails
	dummyHash string
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithArgonParams overrides the password hashing cost.
func WithArgonParams(p auth.ArgonParams) AuthOption {
	return func(s *AuthService) { s.argon = p }
}

// NewAuthService constructs an AuthService using the users repository and
// server config.
func NewAuthService(users usersrepo.Repository, cfg *config.Config, logger logging.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:     users,
		jwtSecret: []byte(cfg.SecretKey),
		validity:  cfg.SessionValidity,
		argon:     auth.DefaultArgon,
		logger:    logger.With("module", "auth_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash = newDummyHash(s.argon)
	return s
}

// NormalizeEmail trims surrounding whitespace and checks the local@domain.tld
// shape. Case is preserved; lookups are exact.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email", common.ErrInvalidInput)
	}
	return email, nil
}

func checkPassword(password []byte) error {
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("%w: password is too long", common.ErrInvalidInput)
	}
	return nil
}

// Signup creates an account storing only an argon2id hash of password.
func (s *AuthService) Signup(ctx context.Context, email string, password []byte) (*models.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(s.argon, password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	s.logger.Info(ctx, "user created", "user_id", u.ID)
	return u, nil
}

// Login checks the password and returns a signed session token. A missing
// email or password is common.ErrInvalidInput. Unknown email and wrong
// password both yield common.ErrInvalidCredentials after the same hashing
// work.
func (s *AuthService) Login(ctx context.Context, email string, password []byte) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return "", nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}
	if len(password) > MaxPasswordLen {
		return "", nil, common.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			return "", nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		return "", nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID)
		return "", nil, common.ErrInvalidCredentials
	}
	if !ok {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.validity)
	if err != nil {
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, user, nil
}

// Verify returns the claims of a valid session token. Every failure is
// common.ErrUnauthenticated.
func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthenticated, err)
	}
	return claims, nil
}

// Me loads the account behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return u, nil
}

func newDummyHash(p auth.ArgonParams) string {
	pw, _ := common.MakeRandHexString(16)
	h, _ := auth.HashPassword(p, []byte(pw))
	return h
}
