// Package server exposes generation, stored sites, editing sessions and public
// share pages over HTTP. Identity is taken from a header set by the upstream
// auth proxy.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/generation"
	"github.com/kapu/astroweb-go/internal/session"
)

type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

// SiteStore is satisfied by *generation.Sites.
type SiteStore interface {
	Save(ctx context.Context, identity, prompt string, layout domain.Layout) (domain.RecordRef, error)
	Update(ctx context.Context, identity, id string, layout domain.Layout, prompt string) error
	List(ctx context.Context, identity string) ([]domain.GenerationSummary, error)
	Get(ctx context.Context, identity, id string) (*domain.Generation, error)
	ShareToken(ctx context.Context, identity, id string) (string, error)
	Share(ctx context.Context, token string) (*domain.SharedSite, error)
	Delete(ctx context.Context, identity, id string) error
	Export(ctx context.Context, identity, id string) (generation.Download, error)
}

// CreditStore is satisfied by *cache.AllowanceStore.
type CreditStore interface {
	GetBalance(ctx context.Context, identity string) (int64, error)
	Increment(ctx context.Context, identity string, amount int64) (int64, error)
	Grant(ctx context.Context, identity string) (bool, error)
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Generator Generator
	Sites     SiteStore
	Credits   CreditStore
	Sessions  *session.Manager
	Logger    *zap.Logger
	Checks    map[string]HealthCheck

	// PublicBaseURL prefixes share links; empty yields relative links.
	PublicBaseURL string
	WithLogo      bool
	WithImage     bool
}

type Server struct {
	deps     Deps
	logger   *zap.Logger
	router   chi.Router
	validate *validator.Validate
	upgrader websocket.Upgrader
	now      func() time.Time
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{
		deps:     deps,
		logger:   deps.Logger,
		validate: validatorInstance(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		now: time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.identity)

	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)

	// Public share surface.
	r.Get("/api/preview/{shareID}", s.handleSharedJSON)
	r.Get("/p/{shareID}", s.handleSharedPage)

	r.Group(func(r chi.Router) {
		r.Use(s.requireIdentity)

		r.Post("/api/generate", s.handleGenerate)
		r.Post("/api/render", s.handleRender)

		r.Route("/api/credits", func(r chi.Router) {
			r.Get("/balance", s.handleBalance)
			r.Post("/topup", s.handleTopUp)
		})

		r.Route("/api/generations", func(r chi.Router) {
			r.Get("/", s.handleListGenerations)
			r.Post("/", s.handleSaveGeneration)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGeneration)
				r.Patch("/", s.handleUpdateGeneration)
				r.Delete("/", s.handleDeleteGeneration)
				r.Get("/share", s.handleShareLink)
				r.Get("/export", s.handleExport)
			})
		})

		r.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/editor", s.handleEditor)
				r.Post("/edits", s.handleEdit)
				r.Post("/save", s.handleSaveSession)
				r.Get("/ws", s.handleSessionSocket)
			})
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: constants.HTTPConfig.ReadHeaderTimeout,
		WriteTimeout:      constants.HTTPConfig.WriteTimeout,
		IdleTimeout:       constants.HTTPConfig.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.HTTPConfig.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
