package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/rota-engine/leave"
)

// NewRouter wires the engine's exposed operations onto a chi router.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees/{id}", func(r chi.Router) {
			r.Get("/working-days", h.GetWorkingDays)
			r.Get("/days-off", h.GetDaysOff)
			r.Post("/requests", h.CreateLeaveRequest)
			r.Post("/absences", h.CreateAbsence)
		})

		r.Route("/requests/{id}", func(r chi.Router) {
			r.Post("/approve", h.TransitionRequest(leave.ActionApprove))
			r.Post("/deny", h.TransitionRequest(leave.ActionDeny))
			r.Post("/cancel", h.TransitionRequest(leave.ActionCancel))
		})

		r.Delete("/absences/{id}", h.DeleteAbsence)

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Post("/{id}/blocks", h.CreateBlock)
			r.Post("/{id}/regenerate", h.RegenerateShift)
		})
	})

	return r
}
