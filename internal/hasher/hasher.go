// Package hasher wraps bcrypt so raw passwords never travel past it.
package hasher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/whisperbox-dev/whisperbox/internal/logger"
)

type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost. Cost 0 falls back to
// bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}
	return string(digest), nil
}

func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
