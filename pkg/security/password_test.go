package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/dealerhub-backend/pkg/config"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	require.NoError(t, h.Verify("correct horse battery staple", encoded))
	require.ErrorIs(t, h.Verify("wrong password", encoded), ErrHashMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher(t)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher(t)
	require.Error(t, h.Verify("anything", "not-a-hash"))
	require.Error(t, h.Verify("anything", "$argon2i$v=19$m=8,t=1,p=1$c2FsdA$a2V5"))
}
