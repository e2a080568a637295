package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/roastery/pkg/auth"
	"github.com/shashiranjanraj/roastery/pkg/response"
)

type claimsKey struct{}

// Auth validates the Bearer token and stores the decoded claims in the
// request context for handlers to read via ClaimsFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w, "Authorization token required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the claims stored by Auth, or nil when the
// request did not pass through it.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}
