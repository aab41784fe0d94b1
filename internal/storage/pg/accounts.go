package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/domain"
)

const accountColumns = "id, username, email, password_hash, verify_code, (verify_code_expiry at time zone 'utc'), is_verified, is_accepting_messages"

// =========================================================================
// Public Methods (satisfy the service.AccountStorage interface)
// =========================================================================

// Insert creates a new account row and returns the assigned id.
// An email collision surfaces as a 409 so the registration workflow can
// distinguish it from infrastructure failures.
func (s *Storage) Insert(account domain.Account) (domain.AccountId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.AccountId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insert(tx, account)
		return err
	})
	return id, err
}

// Update is a full replace of the account row by id.
func (s *Storage) Update(account domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.update(tx, account)
	})
}

// ByEmail fetches an account regardless of verification state.
func (s *Storage) ByEmail(email domain.Email) (domain.Account, error) {
	return s.account(s.db, "lower(email) = lower($1)", email)
}

// ByUsernameVerified fetches a verified account holding the username.
// Unverified rows do not reserve a name, so they are invisible here.
func (s *Storage) ByUsernameVerified(username domain.Username) (domain.Account, error) {
	return s.account(s.db, "lower(username) = lower($1) AND is_verified", username)
}

// ByIdentifier resolves a sign-in identifier that may be a username or an
// email. Among username matches a verified account wins; between
// unverified duplicates the most recent registration wins.
func (s *Storage) ByIdentifier(identifier domain.Identifier) (domain.Account, error) {
	return s.account(s.db, "lower(email) = lower($1) OR lower(username) = lower($1)", identifier)
}

// SetAcceptingMessages flips the mailbox flag.
func (s *Storage) SetAcceptingMessages(id domain.AccountId, accepting bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.setAcceptingMessages(tx, id, accepting)
	})
}

// AppendMessage stores an inbound message at the end of the mailbox.
func (s *Storage) AppendMessage(id domain.AccountId, content string) (domain.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg domain.Message
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		msg, err = s.appendMessage(tx, id, content)
		return err
	})
	return msg, err
}

// Messages returns the mailbox in arrival order.
func (s *Storage) Messages(id domain.AccountId) ([]domain.Message, error) {
	return s.messages(s.db, id)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) insert(q Querier, account domain.Account) (domain.AccountId, error) {
	id := uuid.NewString()
	_, err := q.Exec(`
        INSERT INTO accounts(id, username, email, password_hash, verify_code, verify_code_expiry, is_verified, is_accepting_messages)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, account.Username, account.Email, account.PasswordHash,
		account.VerifyCode, account.VerifyCodeExpiry, account.IsVerified, account.IsAcceptingMessages,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", apperr.Conflict("Email already registered")
		}
		return "", fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

func (s *Storage) update(q Querier, account domain.Account) error {
	result, err := q.Exec(`
        UPDATE accounts
        SET username = $2, email = $3, password_hash = $4, verify_code = $5,
            verify_code_expiry = $6, is_verified = $7, is_accepting_messages = $8
        WHERE id = $1`,
		account.Id, account.Username, account.Email, account.PasswordHash,
		account.VerifyCode, account.VerifyCodeExpiry, account.IsVerified, account.IsAcceptingMessages,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("Username already taken")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for account update: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("Account not found for update")
	}
	return nil
}

func (s *Storage) account(q Querier, where string, arg interface{}) (domain.Account, error) {
	var account domain.Account
	query := fmt.Sprintf(`
        SELECT %s FROM accounts
        WHERE %s
        ORDER BY is_verified DESC, created_at DESC
        LIMIT 1`, accountColumns, where)
	err := q.QueryRow(query, arg).Scan(
		&account.Id, &account.Username, &account.Email, &account.PasswordHash,
		&account.VerifyCode, &account.VerifyCodeExpiry, &account.IsVerified, &account.IsAcceptingMessages,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, apperr.NotFound("Account not found")
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func (s *Storage) setAcceptingMessages(q Querier, id domain.AccountId, accepting bool) error {
	result, err := q.Exec("UPDATE accounts SET is_accepting_messages = $2 WHERE id = $1", id, accepting)
	if err != nil {
		return fmt.Errorf("failed to update accepting flag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for accepting flag update: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("Account not found")
	}
	return nil
}

func (s *Storage) appendMessage(q Querier, id domain.AccountId, content string) (domain.Message, error) {
	var msg domain.Message
	err := q.QueryRow(`
        INSERT INTO messages(account_id, content)
        VALUES($1, $2)
        RETURNING id, content, (created_at at time zone 'utc')`,
		id, content,
	).Scan(&msg.Id, &msg.Content, &msg.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Message{}, apperr.NotFound("Account not found")
		}
		return domain.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (s *Storage) messages(q Querier, id domain.AccountId) ([]domain.Message, error) {
	rows, err := q.Query(`
        SELECT id, content, (created_at at time zone 'utc')
        FROM messages
        WHERE account_id = $1
        ORDER BY created_at, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Id, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
