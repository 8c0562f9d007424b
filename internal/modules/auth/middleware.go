package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
)

// Middleware authenticates "Authorization: Bearer <token>" requests. Requests
// without the header pass through anonymously; a bad token is rejected.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				httpx.Error(w, r, ErrUnauthenticated)
				return
			}
			p, err := svc.ParseToken(strings.TrimSpace(token))
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
