package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"github.com/syafiqkay/taskdeck/pkg/usecase"
)

// userIDHeader carries the calling user's identity. Authentication is
// handled upstream of this service; the header is trusted as-is.
const userIDHeader = "X-User-ID"

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	OwnerID     string    `json:"owner_id,omitempty"`
	CreatorID   string    `json:"creator_id,omitempty"`
	EpicID      int64     `json:"epic_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          int64(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		DueDate:     t.DueDate,
		OwnerID:     string(t.OwnerID),
		CreatorID:   string(t.CreatorID),
		EpicID:      int64(t.EpicID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	EpicID      int64     `json:"epic_id"`
}

func (req *createTaskRequest) toInput() usecase.CreateTaskInput {
	return usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      types.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		EpicID:      types.EpicID(req.EpicID),
	}
}

func callerUserID(r *http.Request) (types.UserID, error) {
	uid := r.Header.Get(userIDHeader)
	if uid == "" {
		return "", goerr.Wrap(usecase.ErrInvalidInput, "missing "+userIDHeader+" header")
	}
	return types.UserID(uid), nil
}

func taskIDParam(r *http.Request) (types.TaskID, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid task ID", goerr.V("raw", raw))
	}
	return types.TaskID(id), nil
}

func (s *Server) claimTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerUserID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if err := s.uc.Task.ClaimTask(ctx, userID, taskID); err != nil {
		handleError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerUserID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	created, err := s.uc.Task.CreateTask(ctx, req.toInput(), userID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newTaskResponse(created))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := taskIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	task, err := s.uc.Task.GetTask(ctx, taskID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newTaskResponse(task))
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var opts []interfaces.ListTaskOption
	if status := r.URL.Query().Get("status"); status != "" {
		parsed, err := types.ParseTaskStatus(status)
		if err != nil {
			handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid status filter", goerr.V("status", status)))
			return
		}
		opts = append(opts, interfaces.WithStatus(parsed))
	}
	if owner := r.URL.Query().Get("owner"); owner != "" {
		opts = append(opts, interfaces.WithOwner(types.UserID(owner)))
	}

	tasks, err := s.uc.Task.ListTasks(ctx, opts...)
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

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := taskIDParam(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	updated, err := s.uc.Task.UpdateTaskStatus(ctx, taskID, types.TaskStatus(req.Status))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newTaskResponse(updated))
}
