package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/classpulse/rollcall/internal/web/handlers"
)

func setupRoutes(r *chi.Mux, h *handlers.AttendanceHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListToday)
			r.Delete("/{rollNumber}", h.Delete)
			r.Post("/clear", h.ClearToday)
			r.Post("/purge", h.Purge)
			r.Get("/export", h.Export)
		})
	})
}
