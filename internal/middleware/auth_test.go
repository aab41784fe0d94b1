package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperbox-dev/whisperbox/internal/domain"
	"github.com/whisperbox-dev/whisperbox/internal/token"
)

var testAccount = domain.Account{
	Id:                  "id-1",
	Username:            "alice",
	IsVerified:          true,
	IsAcceptingMessages: true,
}

func claimsEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaimsFromContext(r)
		require.NotNil(t, claims)
		w.Write([]byte(claims.Username))
	})
}

func TestAuth(t *testing.T) {
	tokens := token.New("testKey", time.Minute)
	handler := Auth(tokens)(claimsEcho(t))

	t.Run("valid token passes with claims in context", func(t *testing.T) {
		tokenStr, err := tokens.Issue(testAccount)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/account/messages", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: tokenStr})
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "alice", rr.Body.String())
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/account/messages", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/account/messages", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		other := token.New("otherKey", time.Minute)
		tokenStr, err := other.Issue(testAccount)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/account/messages", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: tokenStr})
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetClaimsFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetClaimsFromContext(req))
}
