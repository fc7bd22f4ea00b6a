// File: internal/usecase/auth_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

// CredentialStore persists the bearer credentials between runs
// (the cookie analog).
type CredentialStore interface {
	SaveCredentials(creds *model.Credentials) error
	LoadCredentials() (*model.Credentials, error)
	ClearCredentials() error
}

var _ AuthUseCase = (*authUC)(nil)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*model.Credentials, error)
	Register(ctx context.Context, email, password, name string) (*model.Credentials, error)
	Logout() error
	// Current returns stored credentials, or ErrUnauthorized when absent
	// or expired.
	Current() (*model.Credentials, error)
	// HandleUnauthorized is the global 401 hook: it drops stored
	// credentials so the next command lands on the login prompt.
	HandleUnauthorized()
}

type authUC struct {
	gw    repository.AuthGateway
	creds CredentialStore
	log   *zerolog.Logger
	now   func() time.Time
}

func NewAuthUseCase(gw repository.AuthGateway, creds CredentialStore, log *zerolog.Logger) *authUC {
	return &authUC{gw: gw, creds: creds, log: log, now: time.Now}
}

func (a *authUC) Login(ctx context.Context, email, password string) (*model.Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidArgument)
	}
	creds, err := a.gw.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.remember(creds)
	return creds, nil
}

func (a *authUC) Register(ctx context.Context, email, password, name string) (*model.Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidArgument)
	}
	creds, err := a.gw.Register(ctx, email, password, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	a.remember(creds)
	return creds, nil
}

func (a *authUC) Logout() error {
	return a.creds.ClearCredentials()
}

func (a *authUC) Current() (*model.Credentials, error) {
	creds, err := a.creds.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if !creds.Valid(a.now()) {
		return nil, domain.ErrUnauthorized
	}
	return creds, nil
}

func (a *authUC) HandleUnauthorized() {
	if err := a.creds.ClearCredentials(); err != nil {
		a.log.Warn().Err(err).Msg("clearing credentials after 401")
	}
}

func (a *authUC) remember(creds *model.Credentials) {
	if creds.ExpiresAt.IsZero() {
		creds.ExpiresAt = tokenExpiry(creds.Token)
	}
	if err := a.creds.SaveCredentials(creds); err != nil {
		a.log.Warn().Err(err).Msg("persisting credentials")
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs it to know when to prompt for a fresh login. Opaque
// tokens yield a zero time, which Valid treats as non-expiring.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
