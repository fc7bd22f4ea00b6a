package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docchat/internal/domain/model"
)

// tokenMinter signs and verifies the stub's HS256 session tokens.
type tokenMinter struct {
	secret []byte
	ttl    time.Duration
}

func newTokenMinter(secret []byte, ttl time.Duration) *tokenMinter {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenMinter{secret: secret, ttl: ttl}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *tokenMinter) mint(user model.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *tokenMinter) verify(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// requireAuth accepts the token either as a bearer header or as the
// session cookie, mirroring the real backend.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if hdr := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			token = strings.TrimSpace(hdr[7:])
		} else if c, err := r.Cookie(cookieName); err == nil {
			token = c.Value
		}
		if token == "" {
			writeErr(w, http.StatusUnauthorized, "missing token")
			return
		}
		if _, err := s.auth.verify(token); err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	creds, err := s.fx.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	s.respondSession(w, creds.User)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	creds, err := s.fx.Auth.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	s.respondSession(w, creds.User)
}

// respondSession mints the JWT, sets the HTTP-only cookie, and returns the
// flat auth response shape (token and user at the top level).
func (s *Server) respondSession(w http.ResponseWriter, user model.User) {
	token, err := s.auth.mint(user)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "mint token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = writeJSON(w, map[string]any{"success": true, "token": token, "user": user})
}
