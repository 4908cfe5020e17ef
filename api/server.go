/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: Structured access log (zap)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for frontend

ROUTE GROUPS:
  /api/health           Liveness
  /api/presets          Built-in schemes
  /api/schemes/*        Scheme catalogue, projection, analysis
  /api/projections      Inline projection

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging
  - cli/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/vesting-engine/config"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = config.DefaultAllowedOrigins()
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/presets", h.ListPresets)

		// Scheme routes
		r.Route("/schemes", func(r chi.Router) {
			r.Get("/", h.ListSchemes)
			r.Post("/", h.CreateScheme)
			r.Get("/{id}", h.GetScheme)
			r.Put("/{id}", h.UpdateScheme)
			r.Delete("/{id}", h.DeleteScheme)
			r.Post("/{id}/projection", h.ProjectScheme)
			r.Post("/{id}/analysis", h.Analyze)
		})

		r.Post("/projections", h.Project)
	})

	return r
}
