package middleware

import (
	"context"
	"net/http"

	"github.com/whisperbox-dev/whisperbox/internal/domain"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
	"github.com/whisperbox-dev/whisperbox/internal/token"
	"github.com/whisperbox-dev/whisperbox/internal/utils"
)

// CookieName carries the session token between requests.
const CookieName = "accessToken"

// Key to store the session claims in the request context
type key int

const claimsKey key = 0

// Auth rejects requests without a valid session token and stores the
// decoded claims in the request context for downstream handlers.
func Auth(tokens token.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessCookie, err := r.Cookie(CookieName)
			if err == http.ErrNoCookie {
				http.Error(w, "Please sign in", http.StatusUnauthorized)
				return
			} else if err != nil {
				// this error shouldnt happen
				logger.Log.Error("failed to read access cookie", "error", err)
				http.Error(w, "Invalid cookie", http.StatusInternalServerError)
				return
			}

			claims, err := tokens.Decode(accessCookie.Value)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, &claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext retrieves the session claims stored by Auth.
func GetClaimsFromContext(r *http.Request) *domain.SessionClaims {
	claims, ok := r.Context().Value(claimsKey).(*domain.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
