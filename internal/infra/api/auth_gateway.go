package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
	"docchat/internal/infra/metrics"
)

var _ repository.AuthGateway = (*AuthGateway)(nil)

type AuthGateway struct {
	c *Client
}

func NewAuthGateway(c *Client) *AuthGateway { return &AuthGateway{c: c} }

// authResponse carries token and user at the top level rather than inside
// the data envelope; the auth endpoints predate the uniform shape.
type authResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token,omitempty"`
	User    model.User `json:"user,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (*model.Credentials, error) {
	return g.post(ctx, "/auth/login", "POST /auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (g *AuthGateway) Register(ctx context.Context, email, password, name string) (*model.Credentials, error) {
	return g.post(ctx, "/auth/register", "POST /auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

func (g *AuthGateway) post(ctx context.Context, path, endpoint string, body map[string]string) (*model.Credentials, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.c.url(path, nil), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		metrics.ObserveAPIRequest(endpoint, "unauthorized", time.Since(start))
		msg := out.Error
		if msg == "" {
			msg = "rejected"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	}
	if !out.Success || out.Token == "" {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		sentinel := domain.ErrUnavailable
		switch resp.StatusCode {
		case http.StatusBadRequest:
			sentinel = domain.ErrInvalidArgument
		case http.StatusConflict:
			sentinel = domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: %s", sentinel, msg)
	}

	metrics.ObserveAPIRequest(endpoint, "ok", time.Since(start))
	return &model.Credentials{Token: out.Token, User: out.User}, nil
}
