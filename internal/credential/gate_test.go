package credential_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/csatutor/internal/credential"
)

func newGate(t *testing.T, now time.Time) *credential.Gate {
	t.Helper()
	gen, err := credential.NewGenerator(seed, time.UTC, credential.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	gate, err := credential.NewGate(gen, "admin-secret")
	require.NoError(t, err)
	return gate
}

func TestGate_CheckUser(t *testing.T) {
	gate := newGate(t, time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC))

	assert.True(t, gate.CheckUser("FDFHLHLLGH"))
	assert.True(t, gate.CheckUser("  FDFHLHLLGH\n"), "surrounding whitespace is ignored")
	assert.False(t, gate.CheckUser("fdfhlhllgh"), "comparison is case sensitive")
	assert.False(t, gate.CheckUser("FJKGBQBRED"), "next week's password is not valid yet")
	assert.False(t, gate.CheckUser(""))
}

func TestGate_CheckAdmin(t *testing.T) {
	gate := newGate(t, time.Now())

	assert.True(t, gate.CheckAdmin("admin-secret"))
	assert.False(t, gate.CheckAdmin(" admin-secret"), "admin secret is matched exactly")
	assert.False(t, gate.CheckAdmin("admin"))
	assert.False(t, gate.CheckAdmin(""))
}

func TestNewGate_EmptyAdminSecret(t *testing.T) {
	gen, err := credential.NewGenerator(seed, time.UTC)
	require.NoError(t, err)

	_, err = credential.NewGate(gen, "")
	assert.ErrorIs(t, err, credential.ErrEmptyAdminSecret)
}
