package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/voxloop/voxloop/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func New(cfg *config.Config, provider CompletionProvider, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           otelhttp.NewHandler(newRouter(cfg, provider, logger), "voxloopd"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func newRouter(cfg *config.Config, provider CompletionProvider, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", handleHealthz)
	r.Get("/api/schema", newSchemaHandler())
	r.Method(http.MethodPost, "/api/converse", newConverseHandler(provider, logger))

	return r
}

// ListenAndServe blocks until the server stops. http.ErrServerClosed is
// returned after a clean Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
