package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/domain"
)

func testAccount(username, email string) domain.Account {
	return domain.Account{
		Username:            username,
		Email:               email,
		PasswordHash:        "hash",
		VerifyCode:          "123456",
		VerifyCodeExpiry:    time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond),
		IsVerified:          false,
		IsAcceptingMessages: true,
	}
}

func TestInsert(t *testing.T) {
	truncate(t)

	id, err := storage.Insert(testAccount("alice", "alice@example.com"))
	require.NoError(t, err, "Insert should not return an error")
	assert.NotEmpty(t, id, "Expected non-empty id")

	// Email uniqueness is global, regardless of verification state
	_, err = storage.Insert(testAccount("differentname", "alice@example.com"))
	require.Error(t, err, "Inserting the same email twice should fail")
	assert.True(t, apperr.IsConflict(err), "Expected conflict, got: %v", err)

	// Case-insensitive
	_, err = storage.Insert(testAccount("anothername", "ALICE@example.com"))
	assert.True(t, apperr.IsConflict(err), "Email uniqueness should be case-insensitive")

	// Unverified accounts may share a username
	_, err = storage.Insert(testAccount("alice", "other@example.com"))
	assert.NoError(t, err, "Unverified accounts may transiently share a username")
}

func TestByEmail(t *testing.T) {
	truncate(t)

	_, err := storage.Insert(testAccount("bob", "bob@example.com"))
	require.NoError(t, err)

	account, err := storage.ByEmail("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Username)
	assert.Equal(t, "bob@example.com", account.Email)
	assert.Equal(t, "123456", account.VerifyCode)
	assert.False(t, account.IsVerified)
	assert.True(t, account.IsAcceptingMessages)

	_, err = storage.ByEmail("nobody@example.com")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err), "Expected 404, got: %v", err)
}

func TestByUsernameVerified(t *testing.T) {
	truncate(t)

	id, err := storage.Insert(testAccount("carol", "carol@example.com"))
	require.NoError(t, err)

	// Unverified account does not reserve the name
	_, err = storage.ByUsernameVerified("carol")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	account, err := storage.ByEmail("carol@example.com")
	require.NoError(t, err)
	account.IsVerified = true
	require.NoError(t, storage.Update(account))

	got, err := storage.ByUsernameVerified("carol")
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)

	// Case-insensitive
	_, err = storage.ByUsernameVerified("CAROL")
	assert.NoError(t, err)
}

func TestByIdentifier(t *testing.T) {
	truncate(t)

	_, err := storage.Insert(testAccount("dave", "dave@example.com"))
	require.NoError(t, err)

	byName, err := storage.ByIdentifier("dave")
	require.NoError(t, err)
	byMail, err := storage.ByIdentifier("dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName.Id, byMail.Id)

	_, err = storage.ByIdentifier("missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestByIdentifierPrefersVerified(t *testing.T) {
	truncate(t)

	// Two unverified registrations sharing a username, then one verifies
	_, err := storage.Insert(testAccount("erin", "erin1@example.com"))
	require.NoError(t, err)
	_, err = storage.Insert(testAccount("erin", "erin2@example.com"))
	require.NoError(t, err)

	account, err := storage.ByEmail("erin1@example.com")
	require.NoError(t, err)
	account.IsVerified = true
	require.NoError(t, storage.Update(account))

	got, err := storage.ByIdentifier("erin")
	require.NoError(t, err)
	assert.Equal(t, account.Id, got.Id, "verified account should win the identifier lookup")
}

func TestUpdate(t *testing.T) {
	truncate(t)

	_, err := storage.Insert(testAccount("frank", "frank@example.com"))
	require.NoError(t, err)

	account, err := storage.ByEmail("frank@example.com")
	require.NoError(t, err)

	account.PasswordHash = "newhash"
	account.VerifyCode = "654321"
	account.IsVerified = true
	require.NoError(t, storage.Update(account))

	got, err := storage.ByEmail("frank@example.com")
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Equal(t, "654321", got.VerifyCode)
	assert.True(t, got.IsVerified)

	missing := account
	missing.Id = "00000000-0000-0000-0000-000000000000"
	missing.Email = "ghost@example.com"
	missing.Username = "ghost"
	err = storage.Update(missing)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateVerifiedUsernameConflict(t *testing.T) {
	truncate(t)

	_, err := storage.Insert(testAccount("grace", "grace1@example.com"))
	require.NoError(t, err)
	_, err = storage.Insert(testAccount("grace", "grace2@example.com"))
	require.NoError(t, err)

	first, err := storage.ByEmail("grace1@example.com")
	require.NoError(t, err)
	first.IsVerified = true
	require.NoError(t, storage.Update(first))

	// Second holder of the name can no longer verify under it
	second, err := storage.ByEmail("grace2@example.com")
	require.NoError(t, err)
	second.IsVerified = true
	err = storage.Update(second)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err), "partial unique index should reject a second verified holder")
}

func TestSetAcceptingMessages(t *testing.T) {
	truncate(t)

	id, err := storage.Insert(testAccount("heidi", "heidi@example.com"))
	require.NoError(t, err)

	require.NoError(t, storage.SetAcceptingMessages(id, false))
	account, err := storage.ByEmail("heidi@example.com")
	require.NoError(t, err)
	assert.False(t, account.IsAcceptingMessages)

	require.NoError(t, storage.SetAcceptingMessages(id, true))
	account, err = storage.ByEmail("heidi@example.com")
	require.NoError(t, err)
	assert.True(t, account.IsAcceptingMessages)

	err = storage.SetAcceptingMessages("00000000-0000-0000-0000-000000000000", true)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestMessagesArrivalOrder(t *testing.T) {
	truncate(t)

	id, err := storage.Insert(testAccount("ivan", "ivan@example.com"))
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := storage.AppendMessage(id, content)
		require.NoError(t, err)
	}

	messages, err := storage.Messages(id)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
	assert.False(t, messages[0].CreatedAt.After(messages[1].CreatedAt))

	_, err = storage.AppendMessage("00000000-0000-0000-0000-000000000000", "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
