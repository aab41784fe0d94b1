package middleware

import (
	"errors"
	"net"
	"net/http"

	"github.com/whisperbox-dev/whisperbox/internal/middleware/ratelimiter"
	"github.com/whisperbox-dev/whisperbox/internal/utils"
)

// RateLimit throttles requests per identity extracted by getIdentity.
func RateLimit(rl *ratelimiter.KeyedLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr.
// Does NOT trust X-Real-IP or X-Forwarded-For headers (no reverse proxy)
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, use it directly
		return r.RemoteAddr, nil
	}
	return ip, nil
}

// GetAccountFromContext keys the limiter by the signed-in account.
// Only usable behind Auth.
func GetAccountFromContext(r *http.Request) (string, error) {
	claims := GetClaimsFromContext(r)
	if claims == nil {
		return "", errors.New("Can't get account id")
	}
	return claims.AccountId, nil
}
