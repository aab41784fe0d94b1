package domain

import "time"

type (
	AccountId  = string
	Email      = string
	Username   = string
	Password   = string
	Identifier = string // username or email, as typed at sign-in
)

// Account is the central entity: credentials, verification state and
// the mailbox of received messages.
type Account struct {
	Id               AccountId
	Username         Username
	Email            Email
	PasswordHash     string
	VerifyCode       string
	VerifyCodeExpiry time.Time
	IsVerified       bool
	// New accounts accept messages by default: the whole point of an
	// account is to receive them.
	IsAcceptingMessages bool
	Messages            []Message
}

// Message is owned by its parent account and never referenced on its own.
type Message struct {
	Id        int64
	Content   string
	CreatedAt time.Time
}

// SessionClaims is the snapshot embedded into a session token at sign-in.
// It is not stored anywhere server-side; if the account changes after
// issuance the token keeps the old values until re-issued.
type SessionClaims struct {
	AccountId           AccountId
	Username            Username
	IsVerified          bool
	IsAcceptingMessages bool
}

type Credentials struct {
	Identifier Identifier
	Password   Password
}
