// Package api implements the data-access ports against the remote REST
// backend. Transport failures are converted into domain sentinels plus a
// readable message; callers only ever branch on errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/infra/metrics"
)

type Client struct {
	base  string
	http  *http.Client
	token func() string
	// onUnauthorized fires once per 401 so the app can drop stored
	// credentials and steer the user back to login.
	onUnauthorized func()
	log            *zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, token func() string, onUnauthorized func(), log *zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if token == nil {
		token = func() string { return "" }
	}
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	return &Client{
		base:           strings.TrimRight(u.String(), "/"),
		http:           &http.Client{Timeout: timeout},
		token:          token,
		onUnauthorized: onUnauthorized,
		log:            log,
	}, nil
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// do issues one JSON round trip. endpoint is the metrics label (the path
// template, not the concrete path, to keep cardinality bounded).
func (c *Client) do(ctx context.Context, method, path, endpoint string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.roundTrip(req, endpoint, out)
}

// upload issues a multipart file upload.
func (c *Client) upload(ctx context.Context, path, endpoint, name, mimeType string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, name)}
	hdr["Content-Type"] = []string{mimeType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.roundTrip(req, endpoint, out)
}

func (c *Client) roundTrip(req *http.Request, endpoint string, out any) error {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.ObserveAPIRequest(endpoint, "unauthorized", time.Since(start))
		c.log.Warn().Str("endpoint", endpoint).Msg("session rejected, clearing credentials")
		c.onUnauthorized()
		return domain.ErrUnauthorized
	}

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !env.Success) {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		msg := env.Error
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
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	if decodeErr != nil {
		metrics.ObserveAPIRequest(endpoint, "error", time.Since(start))
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	metrics.ObserveAPIRequest(endpoint, "ok", time.Since(start))
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
