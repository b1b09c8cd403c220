package middleware

import (
	"context"
	"errors"
	"net/http"

	"wlog/internal/common"
	"wlog/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const claimsCtxKey contextKey = "claims"

// ClaimsLoader decodes the bearer token left in the context by
// jwtauth.Verifier and attaches the claim set to the request. A missing
// header is not an error: the request simply proceeds anonymously and
// each route decides whether that is acceptable. A token that is
// present but invalid fails the whole request.
func ClaimsLoader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, rawClaims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				next.ServeHTTP(w, r)
				return
			}
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if token == nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := security.ClaimsFromMap(rawClaims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the caller's claim set, or nil for an
// anonymous request.
func ClaimsFromContext(ctx context.Context) *security.Claims {
	claims, _ := ctx.Value(claimsCtxKey).(*security.Claims)
	return claims
}
