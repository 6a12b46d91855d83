// Package api serves a read-only HTTP view of stored sessions, their reports
// and the question catalog.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fakeyudi/screener/internal/eventlog"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/report"
	"github.com/fakeyudi/screener/internal/session"
)

// CatalogSource returns the current question catalog.
type CatalogSource interface {
	Catalog() question.Catalog
}

// Server holds the handlers' dependencies.
type Server struct {
	store   session.SessionStore
	catalog CatalogSource
	events  *eventlog.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog exposes the catalog under /catalog.
func WithCatalog(c CatalogSource) Option { return func(s *Server) { s.catalog = c } }

// WithEvents exposes a session's event history under /sessions/{id}/events.
func WithEvents(l *eventlog.Logger) Option { return func(s *Server) { s.events = l } }

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New returns a Server reading from store.
func New(store session.SessionStore, opts ...Option) *Server {
	s := &Server{store: store, origins: []string{"*"}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/catalog", s.getCatalog)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Get("/report", s.getReport)
			r.Get("/events", s.getEvents)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := session.ParseQuery(q.Get("q"), q.Get("sort"), q.Get("order"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.store.List()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, query.Apply(list))
}

// loadSession writes the error response itself and returns nil on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeErr(w, http.StatusNotFound, "session not found")
		return nil
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	return sess
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	if sess := s.loadSession(w, r); sess != nil {
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	rd, err := report.RendererFor(r.URL.Query().Get("format"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.loadSession(w, r)
	if sess == nil {
		return
	}
	data, err := rd.Render(report.FromSession(sess))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	ct := "text/markdown; charset=utf-8"
	if rd.Ext() == ".json" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) getEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeErr(w, http.StatusNotFound, "event log not configured")
		return
	}
	if sess := s.loadSession(w, r); sess == nil {
		return
	}
	events, err := s.events.ForSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type catalogResp struct {
	Sizes     map[question.Difficulty]int `json:"sizes"`
	Questions question.Catalog            `json:"questions"`
}

func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	if s.catalog == nil {
		writeErr(w, http.StatusNotFound, "catalog not configured")
		return
	}
	c := s.catalog.Catalog()
	writeJSON(w, http.StatusOK, catalogResp{Sizes: c.Sizes(), Questions: c})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
