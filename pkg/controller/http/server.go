package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/usecase"
	"github.com/syafiqkay/taskdeck/pkg/utils/errutil"
	"github.com/syafiqkay/taskdeck/pkg/utils/logging"
	"github.com/syafiqkay/taskdeck/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.listTasks)
			r.Post("/", s.createTask)
			r.Get("/{taskID}", s.getTask)
			r.Post("/{taskID}/claim", s.claimTask)
			r.Put("/{taskID}/status", s.updateTaskStatus)
		})

		r.Route("/sprints", func(r chi.Router) {
			r.Get("/", s.listSprints)
			r.Post("/", s.createSprint)
			r.Get("/{sprintID}", s.getSprint)
			r.Put("/{sprintID}/epic", s.setSprintEpic)
			r.Get("/{sprintID}/tasks", s.listSprintTasks)
			r.Post("/{sprintID}/tasks", s.createTaskInSprint)
			r.Delete("/{sprintID}/tasks/{taskID}", s.removeTaskFromSprint)
		})

		r.Route("/epics", func(r chi.Router) {
			r.Get("/", s.listEpics)
			r.Post("/", s.createEpic)
			r.Get("/{epicID}", s.getEpic)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusFromError maps the use case error taxonomy onto HTTP status
// codes: not found → 404, lost claim race → 409, business-rule and
// validation failures → 400, everything else → 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrSprintNotFound),
		errors.Is(err, usecase.ErrEpicNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrTaskAlreadyClaimed):
		return http.StatusConflict

	case errors.Is(err, usecase.ErrSprintClosed),
		errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusFromError(err))
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
