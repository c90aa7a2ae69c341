package api

import (
	"net/http"

	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/session"
)

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	UserAuthed      bool                 `json:"user_authed"`
	Admin           bool                 `json:"admin"`
	Unit            string               `json:"unit,omitempty"`
	Topic           string               `json:"topic,omitempty"`
	Difficulty      string               `json:"difficulty,omitempty"`
	CurrentQuestion string               `json:"current_question,omitempty"`
	Chat            []models.ChatMessage `json:"chat"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := s.AuthService.LoginUser(r.Context(), sessionFromContext(r.Context()), req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.AuthService.LogoutUser(r.Context(), sessionFromContext(r.Context()))
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := s.AuthService.LoginAdmin(r.Context(), sessionFromContext(r.Context()), req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.AuthService.LogoutAdmin(r.Context(), sessionFromContext(r.Context()))
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleWeeklyPassword(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("admin viewed weekly password")
	writeJSON(w, http.StatusOK, s.AuthService.WeeklyPassword(r.Context()))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView(sessionFromContext(r.Context())))
}

// sessionView hides tutor state from visitors without a valid login.
func (s *Server) sessionView(sess session.Session) sessionResponse {
	out := sessionResponse{
		UserAuthed: s.AuthService.UserActive(sess),
		Admin:      sess.Admin,
		Chat:       []models.ChatMessage{},
	}
	if !out.UserAuthed {
		return out
	}
	out.Unit = sess.Unit
	out.Topic = sess.Topic
	out.Difficulty = sess.Difficulty
	out.CurrentQuestion = sess.CurrentQuestion
	if len(sess.Chat) > 0 {
		out.Chat = sess.Chat
	}
	return out
}
