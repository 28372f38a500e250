package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ParticipantRequest is the body of POST /trips/{token}/participants.
type ParticipantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Participant is the JSON representation of a participant.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinTrip handles POST /trips/{token}/participants.
// Joining again with the same email updates the name and answers with the
// existing participant.
func (s *Server) JoinTrip(w http.ResponseWriter, r *http.Request) {
	var body ParticipantRequest
	if isForm(r) {
		form, err := postForm(r)
		if err != nil {
			s.writeFormError(w, r, err)
			return
		}
		body = ParticipantRequest{Name: form.Get("name"), Email: form.Get("email")}
	} else if !s.decodeJSON(w, r, &body) {
		return
	}

	p, err := s.participants.Join(r.Context(), chi.URLParam(r, "token"), body.Name, body.Email)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, participantToResponse(p))
}

// RemoveParticipant handles DELETE /trips/{token}/participants/{participantId}.
// Removing someone who is not on the trip still answers 204.
func (s *Server) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "participantId")
	if !ok {
		return
	}
	if err := s.participants.Remove(r.Context(), chi.URLParam(r, "token"), id); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func participantToResponse(p domain.Participant) Participant {
	return Participant{ID: p.ID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}
