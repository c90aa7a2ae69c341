package api

import (
	"net/http"

	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/services"
)

type questionRequest struct {
	Unit       string `json:"unit"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"units":        s.TutorService.Units(),
		"difficulties": models.Difficulties,
	})
}

func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, question, err := s.TutorService.GenerateQuestion(r.Context(), sessionFromContext(r.Context()), services.QuestionRequest{
		Unit:       req.Unit,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"question":   question,
		"unit":       sess.Unit,
		"topic":      sess.Topic,
		"difficulty": sess.Difficulty,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	_, sub, err := s.TutorService.SubmitAnswer(r.Context(), sessionFromContext(r.Context()), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, reply, err := s.TutorService.Chat(r.Context(), sessionFromContext(r.Context()), req.Message)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.commitSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reply": reply,
		"chat":  sess.Chat,
	})
}
