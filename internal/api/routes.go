package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpixel/companion/internal/auth"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, sessions *auth.Sessions) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.Health)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		// Public share surface for site-map feedback
		r.Route("/share/site-map/{shareToken}", func(r chi.Router) {
			r.Get("/", h.GetSharedSiteMap)
			r.Post("/comments", h.CreateSharedComment)
			r.Patch("/comments/{commentID}", h.ResolveSharedComment)
		})

		// Protected routes (session required)
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(sessions))

			r.Get("/user", h.CurrentUser)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.CreateClient)

				r.Route("/{clientID}", func(r chi.Router) {
					r.Get("/", h.GetClient)
					r.Patch("/", h.UpdateClient)
					r.Delete("/", h.DeleteClient)

					r.Get("/companion-tasks", h.ListTasks)
					r.Post("/companion-tasks", h.CreateTask)
					r.Post("/generate/{taskType}", h.Generate)
				})
			})

			r.Route("/companion-tasks", func(r chi.Router) {
				r.Get("/{id}", h.GetTask)
				r.Patch("/{id}", h.UpdateTask)
				r.Delete("/{id}", h.DeleteTask)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.Post("/", h.CreateProject)
				r.Patch("/{id}", h.UpdateProject)
				r.Delete("/{id}", h.DeleteProject)
			})
		})
	})

	return r
}
