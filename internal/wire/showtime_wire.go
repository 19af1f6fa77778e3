package wire

import (
	"cinema-showtime/internal/adaptor"
	"cinema-showtime/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler, log *zap.Logger) {
	r.Route("/api/showtimes", func(r chi.Router) {
		r.Get("/", showtimeHandler.GetShowtimesByDate)
		r.Post("/", showtimeHandler.CreateShowtime)
		r.Get("/{id}", showtimeHandler.GetShowtimeByID)
		r.Post("/{id}/acknowledge", showtimeHandler.AcknowledgeShowtime)
		r.Delete("/{id}", showtimeHandler.RemoveShowtime)
	})

	// Reservation routes carry the requester identity.
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(middleware.Identity(log))

		r.Get("/", showtimeHandler.GetUserReservations)
		r.Post("/", showtimeHandler.CreateReservation)
		r.Delete("/", showtimeHandler.CancelUserReservations)
		r.Delete("/{id}", showtimeHandler.CancelReservation)
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Post("/", showtimeHandler.CreateTicket)
		r.Delete("/{id}", showtimeHandler.DeleteTicket)
	})
}
