package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/mail"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/whisperbox-dev/whisperbox/internal/apperr"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
)

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*apperr.ErrorWithStatusCode); ok {
		http.Error(w, err.Error(), e.StatusCode)
		return
	}
	// default error is 500
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// DecodeValidate parses a JSON body and checks the DTO's validate tags
// before any workflow logic runs.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("failed to decode request body", "error", err)
		return apperr.Validation("Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body failed validation", "error", err)
		return apperr.Validation("Required fields missing or malformed")
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type CredentialValidator struct{}

func (v *CredentialValidator) Username(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 20 {
		return apperr.Validation("Username must be 3-20 characters")
	}
	if !isAlphanumeric(username) {
		return apperr.Validation("Username must contain only letters and digits")
	}
	return nil
}

func (v *CredentialValidator) Email(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("Invalid email address")
	}
	return nil
}

func (v *CredentialValidator) Password(password string) error {
	if len(password) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	return nil
}

type MessageValidator struct{}

func (v *MessageValidator) Content(content string) error {
	if len(content) == 0 {
		return apperr.Validation("Message is empty")
	}
	if utf8.RuneCountInString(content) > 10_000 {
		return apperr.Validation("Message is too long")
	}
	return nil
}
