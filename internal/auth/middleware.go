package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const SubjectKey contextKey = "subject"

// AnonymousPrefix starts every subject handed out while login is disabled.
const AnonymousPrefix = "anon-"

var errMissingToken = errors.New("missing token")

// LoginRequired reports whether requests must carry a token. Without a
// configured access key every caller gets an anonymous subject.
func (s *Service) LoginRequired() bool {
	return len(s.accessKeyHash) > 0
}

// Subject resolves the caller of r. The token comes from a Bearer
// Authorization header or, for websocket upgrades where browsers cannot set
// headers, the token query parameter. A request without a token gets a fresh
// anonymous subject unless login is required.
func (s *Service) Subject(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" {
			return "", ErrInvalidToken
		}
		token = value
	}
	if token == "" {
		if s.LoginRequired() {
			return "", errMissingToken
		}
		return AnonymousPrefix + uuid.New().String()[:8], nil
	}
	return s.ValidateToken(token)
}

// Middleware stores the caller's subject in the request context and rejects
// requests that fail to authenticate.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := s.Subject(r)
		if errors.Is(err, errMissingToken) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		ctx := context.WithValue(r.Context(), SubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}
