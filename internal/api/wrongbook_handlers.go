package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/csatutor/internal/errors"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/models"
)

func (s *Server) handleWrongbook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.WrongbookFilter{
		Unit:        q.Get("unit"),
		MistakeType: q.Get("mistake_type"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("limit", "must be a number"))
			return
		}
		filter.Limit = limit
	}

	entries, err := s.WrongbookService.ListEntries(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleWrongbookEntry(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.FromContext(r.Context()).Warn("invalid wrongbook id: %s", idStr)
		handleError(w, r, errors.NewValidationError("id", "must be a number"))
		return
	}

	entry, err := s.WrongbookService.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
