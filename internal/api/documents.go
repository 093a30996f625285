package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/minju-kim98/personal-ai-hub/job"
)

var validate = validator.New()

type createDocumentRequest struct {
	Category string   `json:"category" validate:"required,oneof=resume portfolio cover_letter weekly_report proposal misc"`
	Title    string   `json:"title" validate:"max=255"`
	Content  string   `json:"content" validate:"required"`
	Keywords []string `json:"keywords,omitempty"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc := &job.Document{
		UserID:   UserID(r.Context()),
		Category: job.Category(req.Category),
		Title:    req.Title,
		Content:  req.Content,
		Keywords: req.Keywords,
	}
	id, err := s.documents.CreateDocument(r.Context(), doc)
	if err != nil {
		s.log(r).ErrorContext(r.Context(), "create document failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save document")
		return
	}
	doc.ID = id
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := job.DocumentFilter{ExcludeArchived: true}
	if c := q.Get("category"); c != "" {
		if !job.Category(c).Valid() {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		filter.Categories = []job.Category{job.Category(c)}
	}
	if archived, _ := strconv.ParseBool(q.Get("include_archived")); archived {
		filter.ExcludeArchived = false
	}

	docs, err := s.documents.ListDocuments(r.Context(), UserID(r.Context()), filter)
	if err != nil {
		s.log(r).ErrorContext(r.Context(), "list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	if docs == nil {
		docs = []job.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleArchiveDocument(w http.ResponseWriter, r *http.Request) {
	err := s.documents.ArchiveDocument(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, job.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case err != nil:
		s.log(r).ErrorContext(r.Context(), "archive document failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not archive document")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
