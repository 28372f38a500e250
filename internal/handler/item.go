package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/service"
)

// maxFormMemory bounds the in-memory part of multipart forms. The body size
// itself is capped by the max body size middleware.
const maxFormMemory = 1 << 20

// AddItem handles POST /trips/{token}/items.
// The body is either JSON (service.ItemSubmission) or an HTML form; form
// checkboxes count as checked when present.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	var sub service.ItemSubmission
	if isForm(r) {
		form, err := postForm(r)
		if err != nil {
			s.writeFormError(w, r, err)
			return
		}
		sub = service.SubmissionFromForm(form)
	} else if !s.decodeJSON(w, r, &sub) {
		return
	}

	created, err := s.items.Add(r.Context(), chi.URLParam(r, "token"), sub)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(created))
}

// DeleteItem handles DELETE /trips/{token}/items/{itemId}.
// Deleting an item that is not on the trip still answers 204.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}
	if err := s.items.Delete(r.Context(), chi.URLParam(r, "token"), itemID); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isForm reports whether the request carries an HTML form body.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// postForm parses a urlencoded or multipart body and returns its fields.
func postForm(r *http.Request) (url.Values, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// writeFormError reports an unreadable form body. Oversized bodies are 413.
func (s *Server) writeFormError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, tooLargeBody())
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid form body: "+err.Error()))
}

// pathUUID parses a UUID path parameter, answering 422 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid "+name+": must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
