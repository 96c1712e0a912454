// Package api exposes the control and generator registries over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/api/handlers"
	apimiddleware "github.com/tldr-it-stepankutaj/hardenkit/internal/api/middleware"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   app.ServerConfig
	handlers *handlers.Handlers
	logger   *logger.Logger
}

func NewRouter(cfg app.ServerConfig, svc *app.Services, log *logger.Logger) *Router {
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{
		config:   cfg,
		handlers: handlers.NewHandlers(svc, log),
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	if len(r.config.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: r.config.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", r.handlers.Health.Check)

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/generators", r.handlers.Generators.List)

		api.Route("/controls", func(c chi.Router) {
			c.Get("/", r.handlers.Controls.List)
			c.Get("/{name}", r.handlers.Controls.Get)
			c.Post("/{name}/artifacts", r.handlers.Controls.Artifacts)
			c.Post("/{name}/package", r.handlers.Controls.Package)
		})
	})

	return router
}

// NewServer returns an http.Server for cfg.Addr serving the API.
func NewServer(cfg app.ServerConfig, svc *app.Services, log *logger.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, svc, log).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
