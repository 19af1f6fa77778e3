package response

import (
	"time"

	"cinema-showtime/internal/data/entity"
)

type ShowtimeResponse struct {
	ID           string    `json:"id"`
	MovieID      string    `json:"movie_id"`
	TheaterID    string    `json:"theater_id"`
	EconomyPrice float64   `json:"economy_price"`
	VIPPrice     float64   `json:"vip_price"`
	StartsAt     time.Time `json:"starts_at"`
	State        string    `json:"state"`
}

type ReservationResponse struct {
	ID          string    `json:"id"`
	ShowtimeID  string    `json:"showtime_id"`
	UserEmail   string    `json:"user_email"`
	SeatNumbers []int     `json:"seat_numbers"`
	CreatedAt   time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID         string    `json:"id"`
	ShowtimeID string    `json:"showtime_id"`
	SeatNumber int       `json:"seat_number"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

func ShowtimeToResponse(showtime *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:           showtime.ID.String(),
		MovieID:      showtime.MovieID.String(),
		TheaterID:    showtime.TheaterID.String(),
		EconomyPrice: showtime.EconomyPrice,
		VIPPrice:     showtime.VIPPrice,
		StartsAt:     showtime.StartsAt,
		State:        string(showtime.State),
	}
}

func ReservationToResponse(reservation *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          reservation.ID.String(),
		ShowtimeID:  reservation.ShowtimeID.String(),
		UserEmail:   reservation.UserEmail,
		SeatNumbers: reservation.SeatNumbers,
		CreatedAt:   reservation.CreatedAt,
	}
}

func TicketToResponse(ticket *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:         ticket.ID.String(),
		ShowtimeID: ticket.ShowtimeID.String(),
		SeatNumber: ticket.SeatNumber,
		Price:      ticket.Price,
		CreatedAt:  ticket.CreatedAt,
	}
}
