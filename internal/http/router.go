// Package http wires the chi router: public account endpoints, the
// authenticated API, and the operational endpoints.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhttp "github.com/squareupapp/squareup-server/internal/http/auth"
	"github.com/squareupapp/squareup-server/internal/http/contributions"
	"github.com/squareupapp/squareup-server/internal/http/friends"
	"github.com/squareupapp/squareup-server/internal/http/groups"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	"github.com/squareupapp/squareup-server/internal/http/users"
	"github.com/squareupapp/squareup-server/internal/metrics"
)

func New(
	authV1 *authhttp.Handler,
	usersV1 *users.Handler,
	friendsV1 *friends.Handler,
	groupsV1 *groups.Handler,
	contributionsV1 *contributions.Handler,
	requireAuth func(http.Handler) http.Handler,
	loginLimiter *middleware.RateLimiter,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Use(loginLimiter.Handler)
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			authV1.AuthedRoutes(r)
			usersV1.Routes(r)
			friendsV1.Routes(r)
			groupsV1.Routes(r)
			contributionsV1.Routes(r)
		})
	})

	return router
}
