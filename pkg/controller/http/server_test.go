package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/syafiqkay/taskdeck/pkg/controller/http"
	"github.com/syafiqkay/taskdeck/pkg/repository/memory"
	"github.com/syafiqkay/taskdeck/pkg/usecase"
)

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

// setupServer builds a server over the in-memory store with the clock
// pinned inside the test sprint window.
func setupServer() *httpctrl.Server {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithClock(fixedClock("2025-01-05")))
	return httpctrl.New(uc)
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), v)).Required()
}

type taskPayload struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	OwnerID string `json:"owner_id"`
}

type sprintPayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	EpicID int64  `json:"epic_id"`
}

func createTestSprint(t *testing.T, srv *httpctrl.Server) sprintPayload {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/sprints", "alice", map[string]any{
		"name":       "Sprint 1",
		"start_date": "2025-01-01T00:00:00Z",
		"end_date":   "2025-01-10T00:00:00Z",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var sprint sprintPayload
	decodeJSON(t, rec, &sprint)
	return sprint
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer()

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
}

func TestTaskEndpoints(t *testing.T) {
	t.Run("create and get a task", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", "alice", map[string]any{
			"title":       "write docs",
			"description": "API documentation",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var created taskPayload
		decodeJSON(t, rec, &created)
		gt.Value(t, created.Title).Equal("write docs")
		gt.Value(t, created.Status).Equal("UNASSIGNED")

		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var got taskPayload
		decodeJSON(t, rec, &got)
		gt.Value(t, got.ID).Equal(created.ID)
	})

	t.Run("create without user header is rejected", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", "", map[string]any{
			"title": "anonymous",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("get unknown task returns 404", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodGet, "/api/tasks/9999", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("non-numeric task ID returns 400", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodGet, "/api/tasks/abc", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("update status validates the enum", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", "alice", map[string]any{
			"title": "status target",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		var created taskPayload
		decodeJSON(t, rec, &created)

		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/tasks/%d/status", created.ID), "alice", map[string]any{
			"status": "DONE",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var updated taskPayload
		decodeJSON(t, rec, &updated)
		gt.Value(t, updated.Status).Equal("DONE")

		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/tasks/%d/status", created.ID), "alice", map[string]any{
			"status": "NOT_A_STATUS",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestClaimEndpoint(t *testing.T) {
	t.Run("first claim succeeds with 204, second gets 409", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", "alice", map[string]any{
			"title": "claimable",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		var created taskPayload
		decodeJSON(t, rec, &created)

		claimPath := fmt.Sprintf("/api/tasks/%d/claim", created.ID)

		rec = doJSON(t, srv, http.MethodPost, claimPath, "alice", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodPost, claimPath, "bob", nil)
		gt.Number(t, rec.Code).Equal(http.StatusConflict)

		// Owner is unchanged after the failed claim
		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		var got taskPayload
		decodeJSON(t, rec, &got)
		gt.Value(t, got.OwnerID).Equal("alice")
		gt.Value(t, got.Status).Equal("IN_PROGRESS")
	})

	t.Run("claim of unknown task returns 404", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks/9999/claim", "alice", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("claim without user header returns 400", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/tasks/1/claim", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestSprintEndpoints(t *testing.T) {
	t.Run("create task in an open sprint", func(t *testing.T) {
		srv := setupServer()
		sprint := createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/sprints/%d/tasks", sprint.ID), "alice", map[string]any{
			"title": "sprint task",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var created taskPayload
		decodeJSON(t, rec, &created)
		gt.Value(t, created.Title).Equal("sprint task")

		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/sprints/%d/tasks", sprint.ID), "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var listing struct {
			Tasks []taskPayload `json:"tasks"`
		}
		decodeJSON(t, rec, &listing)
		gt.Array(t, listing.Tasks).Length(1)
	})

	t.Run("create task in a closed sprint returns 400", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithClock(fixedClock("2025-02-01")))
		srv := httpctrl.New(uc)

		sprint := createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/sprints/%d/tasks", sprint.ID), "alice", map[string]any{
			"title": "too late",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("create task in unknown sprint returns 404", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/sprints/9999/tasks", "alice", map[string]any{
			"title": "orphan",
		})
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("invalid sprint window returns 400", func(t *testing.T) {
		srv := setupServer()

		rec := doJSON(t, srv, http.MethodPost, "/api/sprints", "alice", map[string]any{
			"name":       "Backwards",
			"start_date": "2025-01-10T00:00:00Z",
			"end_date":   "2025-01-01T00:00:00Z",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("remove task from sprint", func(t *testing.T) {
		srv := setupServer()
		sprint := createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/sprints/%d/tasks", sprint.ID), "alice", map[string]any{
			"title": "to be removed",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		var created taskPayload
		decodeJSON(t, rec, &created)

		rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/sprints/%d/tasks/%d", sprint.ID, created.ID), "alice", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/sprints/%d/tasks", sprint.ID), "", nil)
		var listing struct {
			Tasks []taskPayload `json:"tasks"`
		}
		decodeJSON(t, rec, &listing)
		gt.Array(t, listing.Tasks).Length(0)
	})

	t.Run("list sprints", func(t *testing.T) {
		srv := setupServer()
		createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodGet, "/api/sprints", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var listing struct {
			Sprints []sprintPayload `json:"sprints"`
		}
		decodeJSON(t, rec, &listing)
		gt.Array(t, listing.Sprints).Length(1)
	})

	t.Run("assign and clear sprint epic", func(t *testing.T) {
		srv := setupServer()
		sprint := createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodPost, "/api/epics", "alice", map[string]any{
			"name": "Reliability",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		var epic struct {
			ID int64 `json:"id"`
		}
		decodeJSON(t, rec, &epic)

		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/sprints/%d/epic", sprint.ID), "alice", map[string]any{
			"epic_id": epic.ID,
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		var updated sprintPayload
		decodeJSON(t, rec, &updated)
		gt.Value(t, updated.EpicID).Equal(epic.ID)

		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/sprints/%d", sprint.ID), "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		var fetched sprintPayload
		decodeJSON(t, rec, &fetched)
		gt.Value(t, fetched.EpicID).Equal(epic.ID)

		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/sprints/%d/epic", sprint.ID), "alice", map[string]any{
			"epic_id": 0,
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		var cleared sprintPayload
		decodeJSON(t, rec, &cleared)
		gt.Number(t, cleared.EpicID).Equal(0)
	})

	t.Run("sprint epic errors map to 404", func(t *testing.T) {
		srv := setupServer()
		sprint := createTestSprint(t, srv)

		rec := doJSON(t, srv, http.MethodPut, "/api/sprints/9999/epic", "alice", map[string]any{
			"epic_id": 1,
		})
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)

		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/sprints/%d/epic", sprint.ID), "alice", map[string]any{
			"epic_id": 9999,
		})
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestEpicEndpoints(t *testing.T) {
	srv := setupServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/epics", "alice", map[string]any{
		"name":        "Platform",
		"description": "platform workstream",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decodeJSON(t, rec, &created)
	gt.Value(t, created.Name).Equal("Platform")

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/epics/%d", created.ID), "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/epics/9999", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}
