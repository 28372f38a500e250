package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

func TestJoinTrip_json_returns201(t *testing.T) {
	id := uuid.New()
	h := newHTTPHandler(deps{participants: &mockParticipantServicer{
		join: func(_ context.Context, token, name, email string) (domain.Participant, error) {
			assert.Equal(t, testToken, token)
			assert.Equal(t, "Ana", name)
			assert.Equal(t, "Ana@Example.com", email, "normalisation is the service's job")
			return domain.Participant{ID: id, Name: name, Email: "ana@example.com", CreatedAt: time.Now()}, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips/"+testToken+"/participants", jsonBody(t, map[string]any{
		"name": "Ana", "email": "Ana@Example.com",
	}), "application/json")

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[handler.Participant](t, rec)
	assert.Equal(t, id, body.ID)
	assert.Equal(t, "ana@example.com", body.Email)
}

func TestJoinTrip_form(t *testing.T) {
	var gotName, gotEmail string
	h := newHTTPHandler(deps{participants: &mockParticipantServicer{
		join: func(_ context.Context, _ string, name, email string) (domain.Participant, error) {
			gotName, gotEmail = name, email
			return domain.Participant{ID: uuid.New(), Name: name}, nil
		},
	}})

	form := url.Values{"name": {"Bruno"}}
	rec := do(t, h, http.MethodPost, "/trips/"+testToken+"/participants",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bruno", gotName)
	assert.Empty(t, gotEmail)
}

func TestJoinTrip_validationError_returns422(t *testing.T) {
	h := newHTTPHandler(deps{participants: &mockParticipantServicer{
		join: func(_ context.Context, _ string, _, _ string) (domain.Participant, error) {
			return domain.Participant{}, fmt.Errorf("%w: name must be between 2 and 120 characters", domain.ErrValidation)
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips/"+testToken+"/participants", jsonBody(t, map[string]any{
		"name": "A",
	}), "application/json")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "name must be between 2 and 120 characters", body.Error.Message)
}

func TestJoinTrip_unknownTrip_returns404(t *testing.T) {
	h := newHTTPHandler(deps{participants: &mockParticipantServicer{
		join: func(_ context.Context, _ string, _, _ string) (domain.Participant, error) {
			return domain.Participant{}, domain.ErrNotFound
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips/unknown/participants", jsonBody(t, map[string]any{
		"name": "Ana",
	}), "application/json")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveParticipant_returns204(t *testing.T) {
	id := uuid.New()
	h := newHTTPHandler(deps{participants: &mockParticipantServicer{
		remove: func(_ context.Context, _ string, got uuid.UUID) error {
			assert.Equal(t, id, got)
			return nil
		},
	}})

	rec := do(t, h, http.MethodDelete, "/trips/"+testToken+"/participants/"+id.String(), nil, "")

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRemoveParticipant_malformedID_returns422(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := do(t, h, http.MethodDelete, "/trips/"+testToken+"/participants/42", nil, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
