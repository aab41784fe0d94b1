package middleware

import (
	"net/http"

	"github.com/whisperbox-dev/whisperbox/internal/guard"
	"github.com/whisperbox-dev/whisperbox/internal/token"
)

// Guard applies the route-guard decision table to browser-facing routes.
// Unlike Auth it never 401s: the only outcomes are pass-through or a
// redirect, and an invalid or absent token simply counts as "no token".
func Guard(g *guard.Guard, tokens token.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasValidToken := false
			if cookie, err := r.Cookie(CookieName); err == nil {
				if _, err := tokens.Decode(cookie.Value); err == nil {
					hasValidToken = true
				}
			}

			decision := g.Decide(hasValidToken, r.URL.Path)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
