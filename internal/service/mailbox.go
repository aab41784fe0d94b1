package service

import (
	"net/http"

	"github.com/microcosm-cc/bluemonday"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/domain"
)

type MailboxService interface {
	SetAccepting(accountId domain.AccountId, accepting bool) error
	Accepting(username domain.Username) (bool, error)
	Receive(username domain.Username, content string) (domain.Message, error)
	Messages(accountId domain.AccountId) ([]domain.Message, error)
}

type MailboxStorage interface {
	ByUsernameVerified(username domain.Username) (domain.Account, error)
	SetAcceptingMessages(id domain.AccountId, accepting bool) error
	AppendMessage(id domain.AccountId, content string) (domain.Message, error)
	Messages(id domain.AccountId) ([]domain.Message, error)
}

type ContentValidator interface {
	Content(content string) error
}

type Mailbox struct {
	storage   MailboxStorage
	validator ContentValidator
	sanitizer *bluemonday.Policy
}

func NewMailbox(storage MailboxStorage, validator ContentValidator) *Mailbox {
	return &Mailbox{
		storage:   storage,
		validator: validator,
		// Messages are plain text; strip all markup from whatever arrives
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SetAccepting toggles whether the account receives new messages.
// Existing sessions keep the accepting flag they were issued with; only
// the store reflects the change until the next sign-in.
func (m *Mailbox) SetAccepting(accountId domain.AccountId, accepting bool) error {
	return m.storage.SetAcceptingMessages(accountId, accepting)
}

// Accepting reports the current flag straight from the store, not the
// possibly stale token claim.
func (m *Mailbox) Accepting(username domain.Username) (bool, error) {
	account, err := m.storage.ByUsernameVerified(username)
	if err != nil {
		return false, err
	}
	return account.IsAcceptingMessages, nil
}

// Receive appends an anonymous message to the account's mailbox, but only
// while the owner accepts them.
func (m *Mailbox) Receive(username domain.Username, content string) (domain.Message, error) {
	content = m.sanitizer.Sanitize(content)
	if err := m.validator.Content(content); err != nil {
		return domain.Message{}, err
	}

	account, err := m.storage.ByUsernameVerified(username)
	if err != nil {
		return domain.Message{}, err
	}
	if !account.IsAcceptingMessages {
		return domain.Message{}, &apperr.ErrorWithStatusCode{Message: "User is not accepting messages", StatusCode: http.StatusForbidden}
	}

	return m.storage.AppendMessage(account.Id, content)
}

func (m *Mailbox) Messages(accountId domain.AccountId) ([]domain.Message, error) {
	return m.storage.Messages(accountId)
}
