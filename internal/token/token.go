// Package token issues and validates the self-contained session tokens.
// There is no server-side session table: the signed token is the only
// carrier of the claims, and the claim values are a snapshot taken at
// sign-in time.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/domain"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
)

type TokenService interface {
	Issue(account domain.Account) (string, error)
	Decode(tokenStr string) (domain.SessionClaims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// Issue embeds the account snapshot into a signed HS256 token.
func (j *Jwt) Issue(account domain.Account) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = account.Id
	claims["username"] = account.Username
	claims["verified"] = account.IsVerified
	claims["accepting_messages"] = account.IsAcceptingMessages
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return "", errors.New("Can't create token")
	}

	return tokenString, nil
}

// Decode verifies the signature and expiry and returns the embedded
// claims. Any failure maps to a 401 error.
func (j *Jwt) Decode(tokenStr string) (domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &apperr.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("session token rejected", "error", err)
		return domain.SessionClaims{}, &apperr.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return domain.SessionClaims{}, &apperr.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.SessionClaims{}, &apperr.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	claims, err := fromMapClaims(mapClaims)
	if err != nil {
		logger.Log.Error("token valid but claims malformed", "error", err)
		return domain.SessionClaims{}, &apperr.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}
	return claims, nil
}

func fromMapClaims(m jwt.MapClaims) (domain.SessionClaims, error) {
	var claims domain.SessionClaims
	var ok bool

	if claims.AccountId, ok = m["uid"].(string); !ok {
		return claims, errors.New("missing uid claim")
	}
	if claims.Username, ok = m["username"].(string); !ok {
		return claims, errors.New("missing username claim")
	}
	if claims.IsVerified, ok = m["verified"].(bool); !ok {
		return claims, errors.New("missing verified claim")
	}
	if claims.IsAcceptingMessages, ok = m["accepting_messages"].(bool); !ok {
		return claims, errors.New("missing accepting_messages claim")
	}
	return claims, nil
}
