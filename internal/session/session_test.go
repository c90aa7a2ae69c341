package session_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/session"
)

func TestNew(t *testing.T) {
	s := session.New()
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.False(t, s.UserAuthed)
	assert.False(t, s.Admin)
	assert.NotEqual(t, s.ID, session.New().ID)
}

func TestUserActive(t *testing.T) {
	s := session.New()
	assert.False(t, s.UserActive("2026-W3"))

	s.UserAuthed = true
	s.AuthWindow = "2026-W3"
	assert.True(t, s.UserActive("2026-W3"))
	assert.False(t, s.UserActive("2026-W4"), "rotation logs the user out")
}

func TestWithChat_CapsHistory(t *testing.T) {
	s := session.New()
	for i := 0; i < 15; i++ {
		s = s.WithChat(
			models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("q%d", i)},
			models.ChatMessage{Role: models.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}
	require.Len(t, s.Chat, session.MaxChatHistory)
	assert.Equal(t, "q5", s.Chat[0].Content)
	assert.Equal(t, "a14", s.Chat[len(s.Chat)-1].Content)
}

func TestWithChat_DoesNotAliasOriginal(t *testing.T) {
	base := session.New().WithChat(models.ChatMessage{Role: models.RoleUser, Content: "hi"})
	a := base.WithChat(models.ChatMessage{Role: models.RoleAssistant, Content: "a"})
	b := base.WithChat(models.ChatMessage{Role: models.RoleAssistant, Content: "b"})

	assert.Len(t, base.Chat, 1)
	assert.Equal(t, "a", a.Chat[1].Content)
	assert.Equal(t, "b", b.Chat[1].Content)
}

func TestRecentChat(t *testing.T) {
	s := session.New()
	assert.Nil(t, s.RecentChat(6))

	for i := 0; i < 8; i++ {
		s = s.WithChat(models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprint(i)})
	}
	recent := s.RecentChat(6)
	require.Len(t, recent, 6)
	assert.Equal(t, "2", recent[0].Content)
	assert.Len(t, s.RecentChat(50), 8)
}

func newTokens(t *testing.T, now time.Time) *session.Tokens {
	t.Helper()
	key, err := session.DeriveKey("admin-secret", "test-seed")
	require.NoError(t, err)
	return session.NewTokens(key, time.Hour).WithClock(func() time.Time { return now })
}

func TestTokens_RoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	tokens := newTokens(t, now)
	id := uuid.NewString()

	tok, err := tokens.Issue(id)
	require.NoError(t, err)

	got, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokens_Expired(t *testing.T) {
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	tok, err := newTokens(t, now).Issue(uuid.NewString())
	require.NoError(t, err)

	_, err = newTokens(t, now.Add(2*time.Hour)).Parse(tok)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestTokens_WrongKey(t *testing.T) {
	now := time.Now()
	tok, err := newTokens(t, now).Issue(uuid.NewString())
	require.NoError(t, err)

	other, err := session.DeriveKey("admin-secret", "rotated-seed")
	require.NoError(t, err)
	_, err = session.NewTokens(other, time.Hour).Parse(tok)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestTokens_RejectsGarbageAndNonUUIDSubject(t *testing.T) {
	tokens := newTokens(t, time.Now())

	_, err := tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	tok, err := tokens.Issue("not-a-uuid")
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestDeriveKey(t *testing.T) {
	a, err := session.DeriveKey("admin", "seed")
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := session.DeriveKey("admin", "seed")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := session.DeriveKey("admin", "other")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = session.DeriveKey("", "seed")
	assert.Error(t, err)
}
