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

type sprintResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatorID   string    `json:"creator_id,omitempty"`
	EpicID      int64     `json:"epic_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newSprintResponse(s *model.Sprint) sprintResponse {
	return sprintResponse{
		ID:          int64(s.ID),
		Name:        s.Name,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		CreatorID:   string(s.CreatorID),
		EpicID:      int64(s.EpicID),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func sprintIDParam(r *http.Request) (types.SprintID, error) {
	raw := chi.URLParam(r, "sprintID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid sprint ID", goerr.V("raw", raw))
	}
	return types.SprintID(id), nil
}

func (s *Server) createSprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerUserID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	created, err := s.uc.Sprint.CreateSprint(ctx, req.Name, req.Description, req.StartDate, req.EndDate, userID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newSprintResponse(created))
}

func (s *Server) getSprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sprintID, err := sprintIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	sprint, err := s.uc.Sprint.GetSprint(ctx, sprintID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newSprintResponse(sprint))
}

func (s *Server) listSprints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sprints, err := s.uc.Sprint.ListSprints(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	resp := make([]sprintResponse, 0, len(sprints))
	for _, sp := range sprints {
		resp = append(resp, newSprintResponse(sp))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"sprints": resp})
}

func (s *Server) setSprintEpic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sprintID, err := sprintIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req struct {
		EpicID int64 `json:"epic_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	updated, err := s.uc.Sprint.SetSprintEpic(ctx, sprintID, types.EpicID(req.EpicID))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newSprintResponse(updated))
}

// createTaskInSprint creates a task and attaches it to the sprint in
// one transaction; it fails with 400 when the sprint window does not
// contain the current date.
func (s *Server) createTaskInSprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerUserID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	sprintID, err := sprintIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	created, err := s.uc.Task.CreateTaskInSprint(ctx, req.toInput(), sprintID, userID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newTaskResponse(created))
}

func (s *Server) listSprintTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sprintID, err := sprintIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	tasks, err := s.uc.Sprint.ListSprintTasks(ctx, sprintID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, newTaskResponse(t))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"tasks": resp})
}

func (s *Server) removeTaskFromSprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sprintID, err := sprintIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if err := s.uc.Sprint.RemoveTaskFromSprint(ctx, sprintID, taskID); err != nil {
		handleError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
