package service

import (
	"strings"
	"time"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/domain"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
)

type AuthService interface {
	Register(input RegisterInput) error
	VerifyCode(identifier domain.Identifier, code string) error
	Login(identifier domain.Identifier, password domain.Password) (string, error)
}

type AccountStorage interface {
	Insert(account domain.Account) (domain.AccountId, error)
	Update(account domain.Account) error
	ByEmail(email domain.Email) (domain.Account, error)
	ByUsernameVerified(username domain.Username) (domain.Account, error)
	ByIdentifier(identifier domain.Identifier) (domain.Account, error)
}

type Mailer interface {
	Send(email, username, code string) error
}

type TokenIssuer interface {
	Issue(account domain.Account) (string, error)
}

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type Codes interface {
	Generate() (code string, expiry time.Time)
}

type CredentialValidator interface {
	Username(username string) error
	Email(email string) error
	Password(password string) error
}

type Auth struct {
	storage   AccountStorage
	mailer    Mailer
	token     TokenIssuer
	hasher    Hasher
	codes     Codes
	validator CredentialValidator
}

func NewAuth(storage AccountStorage, mailer Mailer, token TokenIssuer, hasher Hasher, codes Codes, validator CredentialValidator) *Auth {
	return &Auth{
		storage:   storage,
		mailer:    mailer,
		token:     token,
		hasher:    hasher,
		codes:     codes,
		validator: validator,
	}
}

type RegisterInput struct {
	Username domain.Username
	Email    domain.Email
	Password domain.Password
}

// Register creates an account (or re-issues credentials for an unverified
// one) and emails a verification code.
//
// Re-registering an unverified email overwrites password and code in place
// but keeps username, mailbox and the accepting flag. The account write
// commits before the email goes out; if dispatch then fails, the caller
// gets an error although the account exists. Retrying the whole
// registration resends a fresh code, so the gap heals itself.
func (a *Auth) Register(input RegisterInput) error {
	email := strings.ToLower(input.Email)

	if err := a.validator.Username(input.Username); err != nil {
		return err
	}
	if err := a.validator.Email(email); err != nil {
		return err
	}
	if err := a.validator.Password(input.Password); err != nil {
		return err
	}

	// A verified account owns its username outright
	if _, err := a.storage.ByUsernameVerified(input.Username); err == nil {
		return apperr.Conflict("Username already taken")
	} else if !apperr.IsNotFound(err) {
		return err
	}

	passwordHash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	code, expiry := a.codes.Generate()

	existing, err := a.storage.ByEmail(email)
	switch {
	case err == nil && existing.IsVerified:
		return apperr.Conflict("Email already registered")
	case err == nil:
		// Re-registration of a pending account: fresh credentials and
		// code, everything else untouched
		existing.PasswordHash = passwordHash
		existing.VerifyCode = code
		existing.VerifyCodeExpiry = expiry
		if err := a.storage.Update(existing); err != nil {
			return err
		}
	case apperr.IsNotFound(err):
		account := domain.Account{
			Username:            input.Username,
			Email:               email,
			PasswordHash:        passwordHash,
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsVerified:          false,
			IsAcceptingMessages: true,
		}
		if _, err := a.storage.Insert(account); err != nil {
			return err
		}
	default:
		return err
	}

	if err := a.mailer.Send(email, input.Username, code); err != nil {
		logger.Log.Error("account saved but verification email failed", "email", email, "error", err)
		return apperr.DependencyFailure("Account saved but verification email could not be sent. Please register again to retry")
	}
	return nil
}

// VerifyCode consumes a submitted code against a pending account.
// Verifying an already-verified account reports success without touching
// storage; the stale code stays in the row, where the next re-registration
// would overwrite it.
func (a *Auth) VerifyCode(identifier domain.Identifier, code string) error {
	account, err := a.storage.ByIdentifier(identifier)
	if err != nil {
		return err
	}

	if account.IsVerified {
		return nil
	}
	// The code is usable strictly before the expiry instant
	if !time.Now().UTC().Before(account.VerifyCodeExpiry) {
		return apperr.CodeExpired()
	}
	if code != account.VerifyCode {
		return apperr.CodeMismatch()
	}

	account.IsVerified = true
	return a.storage.Update(account)
}

// Login checks the identifier/password pair and returns a session token.
// "No such account" and "wrong password" are indistinguishable to the
// caller; they are told apart only in logs.
func (a *Auth) Login(identifier domain.Identifier, password domain.Password) (string, error) {
	account, err := a.storage.ByIdentifier(identifier)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.Log.Info("login attempt for unknown identifier", "identifier", identifier)
			return "", apperr.InvalidCredentials()
		}
		return "", err
	}

	if !account.IsVerified {
		return "", apperr.NotVerified()
	}

	if !a.hasher.Verify(password, account.PasswordHash) {
		logger.Log.Info("login attempt with wrong password", "account_id", account.Id)
		return "", apperr.InvalidCredentials()
	}

	token, err := a.token.Issue(account)
	if err != nil {
		logger.Log.Error("failed to create session token", "account_id", account.Id, "error", err)
		return "", err
	}
	return token, nil
}
