// Package session holds the per-visitor tutor state that travels between
// requests, and the signed cookie token that names it.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/vytor/csatutor/internal/models"
)

// MaxChatHistory is the number of chat messages kept in a session.
const MaxChatHistory = 20

// Session is passed into every tutor interaction and returned updated; no
// package keeps it in a global.
type Session struct {
	ID              string               `json:"id"`
	UserAuthed      bool                 `json:"user_authed"`
	AuthWindow      string               `json:"auth_window,omitempty"`
	Admin           bool                 `json:"admin"`
	Unit            string               `json:"unit,omitempty"`
	Topic           string               `json:"topic,omitempty"`
	Difficulty      string               `json:"difficulty,omitempty"`
	CurrentQuestion string               `json:"current_question,omitempty"`
	Chat            []models.ChatMessage `json:"chat,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// New returns an empty, logged out session with a fresh id.
func New() Session {
	return Session{ID: uuid.NewString()}
}

// UserActive reports whether the user login is still valid for the current
// credential window. A rotated password logs everyone out.
func (s Session) UserActive(currentWindow string) bool {
	return s.UserAuthed && s.AuthWindow == currentWindow
}

// WithChat returns a copy of s with msgs appended, keeping the newest
// MaxChatHistory messages.
func (s Session) WithChat(msgs ...models.ChatMessage) Session {
	chat := make([]models.ChatMessage, 0, len(s.Chat)+len(msgs))
	chat = append(chat, s.Chat...)
	chat = append(chat, msgs...)
	if len(chat) > MaxChatHistory {
		chat = chat[len(chat)-MaxChatHistory:]
	}
	s.Chat = chat
	return s
}

// RecentChat returns up to n of the newest chat messages.
func (s Session) RecentChat(n int) []models.ChatMessage {
	if n <= 0 || len(s.Chat) == 0 {
		return nil
	}
	if len(s.Chat) <= n {
		return s.Chat
	}
	return s.Chat[len(s.Chat)-n:]
}
