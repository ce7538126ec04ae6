package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/config"
	httphandler "github.com/windfall/lingo_practice/internal/handler/http"
	"github.com/windfall/lingo_practice/internal/middleware"
)

// HTTPServer represents the HTTP server.
type HTTPServer struct {
	server *http.Server
	log    zerolog.Logger
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(
	cfg *config.Config,
	log zerolog.Logger,
	healthHandler *httphandler.HealthHandler,
	scriptHandler *httphandler.ScriptHandler,
	practiceHandler *httphandler.PracticeHandler,
	progressHandler *httphandler.ProgressHandler,
) *HTTPServer {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (public)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)

	// API routes
	r.Route("/api", func(r chi.Router) {
		Routes(r, scriptHandler, practiceHandler, progressHandler)
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &HTTPServer{
		server: server,
		log:    log,
	}
}

// Routes mounts the API routes on a router. Split out so handler tests can
// mount the exact production routing.
func Routes(
	r chi.Router,
	scriptHandler *httphandler.ScriptHandler,
	practiceHandler *httphandler.PracticeHandler,
	progressHandler *httphandler.ProgressHandler,
) {
	// Script management
	r.Get("/scripts", scriptHandler.List)
	r.Post("/scripts", scriptHandler.Create)
	r.Get("/scripts/{scriptID}", scriptHandler.Get)
	r.Put("/scripts/{scriptID}", scriptHandler.Update)
	r.Delete("/scripts/{scriptID}", scriptHandler.Delete)
	r.Get("/scripts/{scriptID}/sentences", scriptHandler.Sentences)
	r.Post("/sentence/{sentenceID}/model_translation", scriptHandler.SetModelTranslation)
	r.Get("/sentences/search", scriptHandler.Search)

	// Practice scoring
	r.Post("/practice/translate", practiceHandler.Translate)
	r.Post("/practice/pronunciation", practiceHandler.Pronunciation)

	// Progress report
	r.Get("/progress", progressHandler.Report)
}

// Start starts the HTTP server.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
