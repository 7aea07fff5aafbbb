package services

import (
	"context"
	"errors"

	"barterly/internal/auth"
	"barterly/internal/domain"
	"barterly/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService resolves the acting principal from a session id or a bearer token.
// It authenticates; authorization stays with the exchange engine.
type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Tokens
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

// IssueToken exchanges credentials for a bearer token.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (string, *domain.User, error) {
	if !s.Tokens.Enabled() {
		return "", nil, auth.ErrDisabled
	}
	u, err := s.verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	tok, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// TokenUser resolves the user behind a bearer token.
func (s *AuthService) TokenUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, claims.UserID)
}
