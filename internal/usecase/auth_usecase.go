package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/repository"
)

// AuthUsecase owns login, session resolution and logout. Sessions are opaque
// random tokens persisted in the store with an absolute expiry; the rest of
// the application only ever sees the auth.Identity resolved from one.
type AuthUsecase struct {
	Repo repository.Repo
	TTL  time.Duration
}

func NewAuthUsecase(r repository.Repo, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{Repo: r, TTL: ttl}
}

func (u *AuthUsecase) Login(ctx context.Context, username, password string) (domain.User, domain.Session, error) {
	user, err := u.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.Session{}, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}
	session := domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(u.TTL),
	}
	if err := u.Repo.CreateSession(ctx, session); err != nil {
		return domain.User{}, domain.Session{}, err
	}
	return user, session, nil
}

// Authenticate resolves a session token to the caller's identity. Expired or
// unknown tokens are indistinguishable from a missing session.
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (auth.Identity, domain.User, error) {
	session, err := u.Repo.GetSession(ctx, token)
	if err != nil {
		return auth.Identity{}, domain.User{}, ErrUnauthorized
	}
	user, err := u.Repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return auth.Identity{}, domain.User{}, ErrUnauthorized
	}
	ident := auth.Identity{
		UserID: user.ID,
		Role:   user.Role,
		TeamID: user.TeamID,
	}
	return ident, user, nil
}

func (u *AuthUsecase) Refresh(ctx context.Context, token string) error {
	if err := u.Repo.RefreshSession(ctx, token, time.Now().UTC().Add(u.TTL)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	return u.Repo.DeleteSession(ctx, token)
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
