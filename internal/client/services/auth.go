package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// AuthAPI is the server surface AuthService needs.
type AuthAPI interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Me(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
}

// SessionStore persists the session token between runs.
type SessionStore interface {
	Save(ctx context.Context, p *session.Profile) error
	Load(ctx context.Context, p *session.Profile) (bool, error)
	Clear(ctx context.Context) error
}

type AuthService struct {
	api      AuthAPI
	sessions SessionStore
	logger   logging.Logger
}

func NewAuthService(a AuthAPI, sessions SessionStore, logger logging.Logger) *AuthService {
	return &AuthService{api: a, sessions: sessions, logger: logger.With("module", "auth")}
}

func checkCredentials(email string, password []byte) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return "", fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}
	return email, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, email string, password []byte) error {
	email, err := checkCredentials(email, password)
	if err != nil {
		return err
	}

	id, err := s.api.Signup(ctx, email, string(password))
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "account created", "user_id", id)
	return nil
}

// Login authenticates and stores the session on p and on disk.
func (s *AuthService) Login(ctx context.Context, p *session.Profile, email string, password []byte) error {
	email, err := checkCredentials(email, password)
	if err != nil {
		return err
	}

	res, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	p.EndSession()
	p.Token = res.Token
	p.UserID = res.UserID
	p.Email = email

	if err := s.sessions.Save(ctx, p); err != nil {
		s.logger.Warn(ctx, "session not persisted", "error", err)
	}
	s.logger.Info(ctx, "logged in", "user_id", res.UserID)
	return nil
}

// Resume restores a saved session and checks it with the server. An
// expired or rejected token is discarded and ErrUnauthenticated returned.
func (s *AuthService) Resume(ctx context.Context, p *session.Profile) error {
	ok, err := s.sessions.Load(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrUnauthenticated
	}

	user, err := s.api.Me(ctx, p.Token)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			p.EndSession()
			_ = s.sessions.Clear(ctx)
		}
		return err
	}

	p.UserID = user.ID
	if user.Email != "" {
		p.Email = user.Email
	}
	return nil
}

// Logout discards the session locally. The server is told to drop its
// cookie, but the token stays cryptographically valid until it expires.
func (s *AuthService) Logout(ctx context.Context, p *session.Profile) error {
	if p.Token != "" {
		if err := s.api.Logout(ctx, p.Token); err != nil {
			s.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}
	p.EndSession()
	return s.sessions.Clear(ctx)
}
