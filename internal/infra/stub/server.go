// Package stub serves the backend REST contract from the in-memory
// fixtures. It exists for offline development and as the test server for
// the HTTP repositories; it is not a production backend.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/infra/memory"
	"docchat/internal/infra/metrics"
)

const cookieName = "docchat_token"

type Server struct {
	fx     *memory.Fixtures
	auth   *tokenMinter
	log    *zerolog.Logger
	server *http.Server
}

func New(fx *memory.Fixtures, jwtSecret string, tokenTTL time.Duration, log *zerolog.Logger) *Server {
	if jwtSecret == "" {
		jwtSecret = "docchat-stub-dev-secret"
	}
	return &Server{
		fx:   fx,
		auth: newTokenMinter([]byte(jwtSecret), tokenTTL),
		log:  log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Route("/chats", func(cr chi.Router) {
			cr.Get("/", s.handleListChats)
			cr.Post("/", s.handleCreateChat)
			cr.Get("/{id}", s.handleGetChat)
			cr.Patch("/{id}", s.handleRenameChat)
			cr.Delete("/{id}", s.handleDeleteChat)
			cr.Get("/{id}/messages", s.handleListMessages)
			cr.Post("/{id}/messages", s.handleSendMessage)
		})
		pr.Route("/documents", func(dr chi.Router) {
			dr.Get("/", s.handleListDocuments)
			dr.Post("/", s.handleUploadDocument)
			dr.Get("/{id}", s.handleGetDocument)
			dr.Delete("/{id}", s.handleDeleteDocument)
		})
	})
	return r
}

func (s *Server) Start(port int) error {
	metrics.MustRegister()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}
	s.log.Info().Int("port", port).Msg("stub backend listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ---- response helpers ----

func writeData(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeJSON(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// statusFor maps domain sentinels onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}
