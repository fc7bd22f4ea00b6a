package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

var _ repository.AuthGateway = (*AuthGateway)(nil)

type account struct {
	user     model.User
	password string
}

// AuthGateway is the fixture authenticator. Any registered account logs in;
// tokens are opaque random strings with a fixed TTL.
type AuthGateway struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthGateway(tokenTTL time.Duration) *AuthGateway {
	return &AuthGateway{
		byEmail:  map[string]*account{},
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (*model.Credentials, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	acc := g.byEmail[strings.ToLower(email)]
	if acc == nil || acc.password != password {
		return nil, fmt.Errorf("%w: bad email or password", domain.ErrUnauthorized)
	}
	return g.mint(acc), nil
}

func (g *AuthGateway) Register(ctx context.Context, email, password, name string) (*model.Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password too short", domain.ErrInvalidArgument)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byEmail[email] != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, email)
	}
	acc := &account{
		user: model.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			CreatedAt: g.now(),
		},
		password: password,
	}
	g.byEmail[email] = acc
	return g.mint(acc), nil
}

func (g *AuthGateway) mint(acc *account) *model.Credentials {
	return &model.Credentials{
		Token:     uuid.NewString(),
		User:      acc.user,
		ExpiresAt: g.now().Add(g.tokenTTL),
	}
}
