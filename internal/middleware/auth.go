package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ScroogeKZ/CreativeStudio/internal/transport"
)

// Authenticator verifies a bearer token, resolves the subject row and
// returns a context carrying it. Implemented by the identity services for
// both audiences; the middleware stays ignorant of the claim shapes.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (context.Context, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AdminAuth guards admin-only routes.
func AdminAuth(a Authenticator) func(http.Handler) http.Handler {
	return authGuard(a)
}

// ClientAuth guards client-portal routes.
func ClientAuth(a Authenticator) func(http.Handler) http.Handler {
	return authGuard(a)
}

func authGuard(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				transport.WriteError(w, http.StatusUnauthorized, "no token provided", nil)
				return
			}

			ctx, err := a.Authenticate(r.Context(), token)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
