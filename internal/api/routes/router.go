package routes

import (
	"net/http"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/middleware"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler *handlers.ProviderHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		providerHandler: providerHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.providerHandler.Health)

	// Provider endpoints. The filter-options route must be registered
	// before {id} would otherwise swallow it; ServeMux prefers the more
	// specific literal pattern either way.
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/_filters/options", r.providerHandler.GetFilterOptions)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
