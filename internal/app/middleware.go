package app

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/pkg/user"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Propagate X-User-Id header into context for downstream services. The
	// id is opaque; requests without it stay anonymous and skip the mirror.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				log.Debugf("request for user %s", userIdHeader)
				ctx = user.WithUser(ctx, user.User{Uid: userIdHeader})
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
