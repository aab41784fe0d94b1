package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperbox-dev/whisperbox/internal/domain"
)

var secretKey = "testJwtKey"

var account = domain.Account{
	Id:                  "11111111-2222-3333-4444-555555555555",
	Username:            "alice",
	Email:               "a@x.com",
	IsVerified:          true,
	IsAcceptingMessages: true,
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	jwt := New(secretKey, 10*time.Second)

	tokenStr, err := jwt.Issue(account)
	require.NoError(t, err)

	claims, err := jwt.Decode(tokenStr)
	require.NoError(t, err)

	assert.Equal(t, account.Id, claims.AccountId)
	assert.Equal(t, account.Username, claims.Username)
	assert.True(t, claims.IsVerified)
	assert.True(t, claims.IsAcceptingMessages)
}

func TestDecodeExpired(t *testing.T) {
	jwt := New(secretKey, -time.Second)

	tokenStr, err := jwt.Issue(account)
	require.NoError(t, err)

	_, err = jwt.Decode(tokenStr)
	assert.Error(t, err, "expired token must not decode")
}

func TestDecodeWrongSecret(t *testing.T) {
	tokenStr, err := New(secretKey, 10*time.Second).Issue(account)
	require.NoError(t, err)

	_, err = New("invalidSecret", 10*time.Second).Decode(tokenStr)
	assert.Error(t, err, "token signed with another secret must not decode")
}

func TestDecodeTamperedSignature(t *testing.T) {
	jwt := New(secretKey, 10*time.Second)

	tokenStr, err := jwt.Issue(account)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	// Flip a character in the signature segment
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = jwt.Decode(tampered)
	assert.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	jwt := New(secretKey, 10*time.Second)

	_, err := jwt.Decode("not-a-token")
	assert.Error(t, err)
}

func TestClaimsAreSnapshotAtIssuance(t *testing.T) {
	jwt := New(secretKey, 10*time.Second)

	acc := account
	acc.IsAcceptingMessages = false
	tokenStr, err := jwt.Issue(acc)
	require.NoError(t, err)

	// Mutating the account afterwards does not affect the issued token
	acc.IsAcceptingMessages = true

	claims, err := jwt.Decode(tokenStr)
	require.NoError(t, err)
	assert.False(t, claims.IsAcceptingMessages)
}
