package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := New(bcrypt.MinCost) // MinCost keeps the test fast

	digest, err := h.Hash("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", digest)

	assert.True(t, h.Verify("12345678", digest))
	assert.False(t, h.Verify("12345679", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := New(bcrypt.MinCost)

	first, err := h.Hash("password")
	require.NoError(t, err)
	second, err := h.Hash("password")
	require.NoError(t, err)

	// Same plaintext must not produce the same digest
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("password", first))
	assert.True(t, h.Verify("password", second))
}

func TestZeroCostFallsBackToDefault(t *testing.T) {
	h := New(0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
