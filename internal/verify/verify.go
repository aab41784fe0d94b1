// Package verify issues the short-lived numeric codes that prove email
// ownership.
package verify

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// Codes are six digits, uniformly drawn from [100000, 999999]. Collisions
// between accounts are harmless: a code is only ever checked against the
// account it was issued for.
const (
	codeMin = 100000
	codeMax = 999999
)

const DefaultTTL = time.Hour

type Generator struct {
	TTL time.Duration
	// Now is swappable in tests; nil means time.Now.
	Now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{TTL: DefaultTTL}
}

// Generate returns a fresh code and the instant it stops being usable.
func (g *Generator) Generate() (string, time.Time) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken;
		// nothing sensible to return
		panic(err)
	}
	code := n.Int64() + codeMin

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return strconv.FormatInt(code, 10), now().UTC().Add(g.TTL)
}
