package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cultural-map/internal/auth"
	"cultural-map/internal/config"
	"cultural-map/internal/handler"
	"cultural-map/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Activity *handler.ActivityHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		// Every request gets a resolved principal; route guards decide access.
		api.Use(authMiddleware.Authenticate)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)
			ar.With(authMiddleware.RequireAuthenticated).Get("/me", h.Auth.Me)
		})

		api.Route("/profile", func(profile chi.Router) {
			profile.Use(authMiddleware.RequireAuthenticated)
			profile.Get("/", h.Profile.Get)
			profile.Put("/", h.Profile.Update)
			profile.Post("/change-password", h.Profile.ChangePassword)
		})

		api.Route("/activities", func(activities chi.Router) {
			activities.Get("/", h.Activity.List)
			activities.Get("/search", h.Activity.Search)
			activities.Get("/near", h.Activity.Near)
			activities.Get("/{id}", h.Activity.Get)

			activities.With(authMiddleware.RequireRole(auth.RoleProducer)).Post("/", h.Activity.Create)
			activities.With(authMiddleware.RequireRole(auth.RoleProducer)).Put("/{id}", h.Activity.Update)
			activities.With(authMiddleware.RequireRole(auth.RoleProducer)).Delete("/{id}", h.Activity.Delete)
		})
	})

	return r
}
