package repository

import (
	"context"

	"docchat/internal/domain/model"
)

// AuthGateway authenticates against the backend and mints bearer credentials.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*model.Credentials, error)
	Register(ctx context.Context, email, password, name string) (*model.Credentials, error)
}
