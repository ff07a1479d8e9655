package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/trackboard/trackboard/internal/config"
	"github.com/trackboard/trackboard/pkg/livesync"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Surface-Id header into context so the edit coordinator
	// can tell the desktop and mobile editors apart.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if surfaceID := req.Header.Get("X-Surface-Id"); surfaceID != "" {
				ctx = livesync.WithSurface(ctx, surfaceID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
