package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Controller is the part of the widget the web front end drives.
type Controller interface {
	Dispatch(cmd widget.Command) (widget.Result, error)
	State() widget.View
	Ack(id string) bool
	Subscribe(buffer int) (<-chan widget.Change, func())
}

type Server struct {
	widget       Controller
	router       chi.Router
	presentation *Presentation
	log          *slog.Logger
}

func NewServer(controller Controller, logger *slog.Logger) (*Server, error) {
	pres, err := NewPresentation()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		widget:       controller,
		router:       chi.NewRouter(),
		presentation: pres,
		log:          logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	// Static Files
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles()))))

	// Page Routes
	s.router.Get("/", s.handleIndex)
	s.router.Get("/timer", s.handleTimer)
	s.router.Get("/clock", s.handleClock)
	s.router.Get("/state", s.handleState)
	s.router.Get("/events", s.handleEvents)

	// API/HTMX Routes
	s.router.Post("/timer/start", s.handleTimerCommand(widget.StartTimer))
	s.router.Post("/timer/pause", s.handleTimerCommand(widget.PauseTimer))
	s.router.Post("/timer/toggle", s.handleTimerCommand(widget.ToggleTimer))
	s.router.Post("/timer/reset", s.handleTimerCommand(widget.ResetTimer))
	s.router.Post("/timer/duration", s.handleSetDuration)
	s.router.Post("/tasks", s.handleCreateTask)
	s.router.Patch("/tasks/{id}/toggle", s.handleToggleTask)
	s.router.Delete("/tasks/{id}", s.handleDeleteTask)
	s.router.Post("/notifications/{id}/ack", s.handleAck)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.presentation.RenderIndex(w, s.widget.State()); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	s.renderTimer(w, r)
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.presentation.RenderClock(w, s.widget.State()); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.widget.State(), http.StatusOK)
}

func (s *Server) handleTimerCommand(kind widget.CommandKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatchTimer(w, r, widget.Command{Kind: kind})
	}
}

func (s *Server) handleSetDuration(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	minutes, err := strconv.Atoi(r.FormValue("minutes"))
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "minutes", Message: "must be a whole number"})
		return
	}
	s.dispatchTimer(w, r, widget.Command{Kind: widget.SetDuration, Minutes: minutes})
}

func (s *Server) dispatchTimer(w http.ResponseWriter, r *http.Request, cmd widget.Command) {
	ctx := parseRequestContext(r)
	if _, err := s.widget.Dispatch(cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ctx.redirectHome(w, r) {
		return
	}
	s.renderTimer(w, r)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.dispatchTask(w, r, widget.Command{Kind: widget.AddTask, Text: r.FormValue("text")})
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	s.dispatchTask(w, r, widget.Command{Kind: widget.ToggleTask, TaskID: id})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	s.dispatchTask(w, r, widget.Command{Kind: widget.DeleteTask, TaskID: id})
}

func (s *Server) dispatchTask(w http.ResponseWriter, r *http.Request, cmd widget.Command) {
	ctx := parseRequestContext(r)
	if _, err := s.widget.Dispatch(cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ctx.redirectHome(w, r) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.presentation.RenderTasks(w, s.widget.State()); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	ctx := parseRequestContext(r)
	id := chi.URLParam(r, "id")
	if !s.widget.Ack(id) {
		s.writeError(w, r, &domain.NotFoundError{Kind: "notification", ID: id})
		return
	}
	if ctx.redirectHome(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderTimer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.presentation.RenderTimer(w, s.widget.State()); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "task id", Message: strconv.Quote(raw)})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrTimerRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("render failed", "path", r.URL.Path, "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
