// Package guard decides what to do with a request based only on whether a
// valid session token is present and which path was asked for. It performs
// no I/O and holds no state, so the whole behavior is a table of
// (token?, path) -> outcome.
package guard

import "strings"

// Decision is either Allow or a redirect to another path.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

func redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

type Guard struct {
	// AuthPaths are pages that make no sense for a signed-in visitor
	// (exact match, except prefixes ending in "/").
	AuthPaths []string
	// ProtectedPrefix gates the signed-in area.
	ProtectedPrefix string
	// Targets of the two redirects.
	HomePath   string
	SignInPath string
}

// Default matches the application's routing table.
func Default() *Guard {
	return &Guard{
		AuthPaths:       []string{"/", "/signin", "/signup", "/verify/"},
		ProtectedPrefix: "/dashboard",
		HomePath:        "/dashboard",
		SignInPath:      "/signin",
	}
}

// Decide maps token presence and the requested path to an outcome.
// A signed-in visitor is bounced off the auth pages to the protected home;
// an anonymous visitor is bounced off the protected area to sign-in;
// everything else passes through.
func (g *Guard) Decide(hasValidToken bool, path string) Decision {
	if hasValidToken && g.isAuthPath(path) {
		return redirect(g.HomePath)
	}
	if !hasValidToken && strings.HasPrefix(path, g.ProtectedPrefix) {
		return redirect(g.SignInPath)
	}
	return allow
}

func (g *Guard) isAuthPath(path string) bool {
	for _, p := range g.AuthPaths {
		if strings.HasSuffix(p, "/") && p != "/" {
			if strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p {
			return true
		}
	}
	return false
}
