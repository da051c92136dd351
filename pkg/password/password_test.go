package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, h.Compare(hash, "secret1"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)

	again, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")
}

func TestCompareDummyAlwaysFails(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	assert.ErrorIs(t, h.CompareDummy("taskpulse-dummy-password"), ErrMismatch)
}

func TestHashRejectsOverlong(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	_, err = h.Hash(strings.Repeat("a", MaxBytes+1))
	assert.Error(t, err)
}

func TestNewHasherCost(t *testing.T) {
	_, err := NewHasher(3)
	assert.Error(t, err)
	_, err = NewHasher(32)
	assert.Error(t, err)
}
