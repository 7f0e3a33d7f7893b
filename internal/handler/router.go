package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"bookmarkd/internal/auth"
	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/middleware"
)

// NewRouter builds the HTTP handler with its middleware chain
func NewRouter(
	cfg *config.Config,
	verifier auth.JWTVerifier,
	deletionService services.CollectionDeletionService,
	logger *slog.Logger,
) http.Handler {
	collectionHandler := NewCollectionHandler(deletionService, logger)

	// Go 1.22+ enhanced patterns
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("DELETE /api/v1/collections/{id}", collectionHandler.DeleteCollection)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	var handler http.Handler = mux
	handler = middleware.AuthMiddleware(verifier, logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}
