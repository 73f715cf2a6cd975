package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()

	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)
	if h.trustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(h.withSecurityHeaders)
	router.Use(h.withOriginCheck)
	router.Use(h.withRateLimit)
	router.Use(withGZip)
	router.Use(h.withBodyLimit)
	router.Use(h.withSanitizer)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/", h.welcome)
	router.Get("/api/health", h.health)
	router.Get("/avatars/{file}", h.avatar)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/users/register", h.register)
		r.Get("/api/users/verify/{verificationToken}", h.verify)
		r.Post("/api/users/verify", h.resendVerification)
		r.Post("/api/users/login", h.login)
		r.Post("/api/users/refresh", h.refresh)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/users/logout", h.logout)
		r.Get("/api/users/current", h.current)
		r.Put("/api/users/profile", h.updateProfile)
		r.Patch("/api/users/theme", h.changeTheme)
		r.Post("/api/users/help", h.help)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
