package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"github.com/syafiqkay/taskdeck/pkg/usecase"
)

type epicResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newEpicResponse(e *model.Epic) epicResponse {
	return epicResponse{
		ID:          int64(e.ID),
		Name:        e.Name,
		Description: e.Description,
		CreatorID:   string(e.CreatorID),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (s *Server) createEpic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerUserID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	created, err := s.uc.Epic.CreateEpic(ctx, req.Name, req.Description, userID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newEpicResponse(created))
}

func (s *Server) getEpic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := chi.URLParam(r, "epicID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid epic ID", goerr.V("raw", raw)))
		return
	}

	epic, err := s.uc.Epic.GetEpic(ctx, types.EpicID(id))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newEpicResponse(epic))
}

func (s *Server) listEpics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	epics, err := s.uc.Epic.ListEpics(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	resp := make([]epicResponse, 0, len(epics))
	for _, e := range epics {
		resp = append(resp, newEpicResponse(e))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"epics": resp})
}
