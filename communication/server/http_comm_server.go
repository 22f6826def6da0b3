package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"djambi/communication"
	"djambi/game"
	"djambi/gamemaster"
	"djambi/searcher"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(s *Server)

// WithProfiler mounts the pprof handlers under /debug.
func WithProfiler() Option {
	return func(s *Server) {
		s.profile = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.log = logger
	}
}

// Server relays matches over HTTP and streams their updates over websockets.
type Server struct {
	registry *gamemaster.Registry
	upgrader websocket.Upgrader
	profile  bool
	log      zerolog.Logger
}

func NewServer(registry *gamemaster.Registry, options ...Option) *Server {
	s := &Server{
		registry: registry,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log.With().Str("component", "server").Logger(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/matches", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Post("/resume", s.handleResume)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withMatch(s.handleState))
			r.Delete("/", s.handleDelete)
			r.Get("/moves", s.withMatch(s.handleDestinations))
			r.Post("/move", s.withMatch(s.handleMove))
			r.Post("/place", s.withMatch(s.handlePlace))
			r.Post("/undo", s.withMatch(s.handleUndo))
			r.Post("/redo", s.withMatch(s.handleRedo))
			r.Post("/ai", s.withMatch(s.handleAI))
			r.Get("/history", s.withMatch(s.handleHistory))
			r.Get("/ws", s.withMatch(s.serveWS))
		})
	})

	if s.profile {
		r.Mount("/debug", middleware.Profiler())
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("relay listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("relay shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type matchHandler func(w http.ResponseWriter, r *http.Request, m *gamemaster.Match)

func (s *Server) withMatch(h matchHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.registry.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		h(w, r, m)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req communication.CreateRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}
	m, err := s.registry.Create(req.Players, req.Advanced)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, communication.CreateResponse{ID: m.ID, State: m.State()})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	m, err := s.registry.Resume(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, communication.CreateResponse{ID: m.ID, State: m.State()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	writeJSON(w, http.StatusOK, m.State())
}

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	q, errQ := strconv.Atoi(r.URL.Query().Get("q"))
	rr, errR := strconv.Atoi(r.URL.Query().Get("r"))
	if errQ != nil || errR != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "q and r must be integers"})
		return
	}
	from := game.Cell{Q: q, R: rr}
	dests := m.Destinations(from)
	if dests == nil {
		dests = []game.Cell{}
	}
	writeJSON(w, http.StatusOK, communication.DestinationsResponse{From: from, Destinations: dests})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	var req communication.MoveRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}
	state, err := m.Move(game.Move{From: req.From, To: req.To})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	var req communication.PlaceRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}
	state, err := m.Place(req.Cell)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	state, applied := m.Undo()
	writeJSON(w, http.StatusOK, communication.HistoryResponse{Applied: applied, State: state})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	state, applied := m.Redo()
	writeJSON(w, http.StatusOK, communication.HistoryResponse{Applied: applied, State: state})
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	move, state, err := m.PlayAI()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.AIResponse{Move: move, State: state})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	w.Header().Set("Content-Type", "application/json")
	if err := m.SaveHistory(w); err != nil {
		s.writeError(w, r, err)
	}
}

// statusOf maps rule and relay errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, gamemaster.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnsupportedPlayerCount), errors.Is(err, game.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrPlacementPending), errors.Is(err, game.ErrGameOver), errors.Is(err, searcher.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, game.ErrInvalidPlacement):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	event := s.log.Debug()
	if status == http.StatusInternalServerError {
		event = s.log.Error()
	}
	event.Err(err).Str("request_id", middleware.GetReqID(r.Context())).Int("status", status).Msg("request rejected")
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Int("status", ww.Status()).
			Dur("duration", time.Since(start)).Str("request_id", middleware.GetReqID(r.Context())).Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
