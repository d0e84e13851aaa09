// Package rest wires the HTTP surface: routing, middleware, and the
// handlers that translate between transport and the service layer.
package rest

import (
	"net/http"
	"time"

	"tabman-backend/interfaces/http/rest/handlers"
	"tabman-backend/interfaces/http/rest/middleware"
	"tabman-backend/internal/service/tabs"
	"tabman-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service *tabs.Service
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(service *tabs.Service, logger *zap.Logger) *Router {
	return &Router{
		service: service,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	tabHandler := handlers.NewTabHandler(rt.service, rt.logger)
	tagHandler := handlers.NewTagHandler(rt.service, rt.logger)
	searchHandler := handlers.NewSearchHandler(rt.service, rt.logger)

	router.Get("/", rt.apiIndex)

	router.Route("/api", func(r chi.Router) {
		r.Route("/tabs", func(r chi.Router) {
			r.Post("/", tabHandler.SaveTab)
			r.Get("/", tabHandler.ListTabs)
			r.Get("/{tabID}", tabHandler.GetTab)
			r.Delete("/{tabID}", tabHandler.DeleteTab)
			r.Put("/{tabID}/archive", tabHandler.SetArchived)

			r.Post("/{tabID}/tags", tagHandler.AttachTag)
			r.Delete("/{tabID}/tags/{tagName}", tagHandler.DetachTag)
		})

		r.Get("/tags", tagHandler.ListTags)
		r.Get("/search", searchHandler.Search)
		r.Get("/stats", searchHandler.Stats)
		r.Get("/health", rt.healthCheck)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.service.Stats(r.Context())
	if err != nil {
		rt.logger.Error("health check failed", zap.Error(err))
		api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"tabs_stored": stats.TotalTabs,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// apiIndex describes the API surface at the root path.
func (rt *Router) apiIndex(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service": "tab manager",
		"endpoints": map[string]string{
			"POST /api/tabs":                          "save a tab",
			"GET /api/tabs":                           "list tabs, ?archived=true|false",
			"GET /api/tabs/{tabID}":                   "get a tab with its tags",
			"DELETE /api/tabs/{tabID}":                "delete a tab and its associations",
			"PUT /api/tabs/{tabID}/archive":           "archive or restore a tab",
			"POST /api/tabs/{tabID}/tags":             "attach a tag",
			"DELETE /api/tabs/{tabID}/tags/{tagName}": "detach a tag",
			"GET /api/tags":                           "list tags",
			"GET /api/search":                         "search tabs, ?q=&type=all|name|tag",
			"GET /api/stats":                          "stored entity counts",
			"GET /api/health":                         "health check",
		},
	})
}
