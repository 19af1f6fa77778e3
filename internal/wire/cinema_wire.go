package wire

import (
	"cinema-showtime/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCinema(r chi.Router, cinemaHandler *adaptor.CinemaHandler, showtimeHandler *adaptor.ShowtimeHandler) {
	r.Route("/api/cinemas", func(r chi.Router) {
		r.Get("/", cinemaHandler.GetCinemas)
		r.Post("/", cinemaHandler.CreateCinema)
		r.Get("/{id}", cinemaHandler.GetCinemaByID)

		r.Post("/{id}/theaters", cinemaHandler.CreateTheater)
		r.Get("/{id}/theaters", cinemaHandler.GetTheaters)

		r.Get("/{id}/showtimes", showtimeHandler.GetShowtimesByCinema)
	})

	r.Get("/api/theaters/{id}/seats", cinemaHandler.GetSeats)
}
