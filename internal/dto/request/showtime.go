package request

import "time"

type CreateShowtimeRequest struct {
	MovieID      string    `json:"movie_id" validate:"required,uuid4"`
	TheaterID    string    `json:"theater_id" validate:"required,uuid4"`
	EconomyPrice float64   `json:"economy_price" validate:"required,gt=0"`
	VIPPrice     float64   `json:"vip_price" validate:"required,gt=0"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
}

type CreateReservationRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid4"`
	// Emptiness is a domain rule, not a transport rule: the usecase rejects
	// an empty set with InvalidState before any seat lookup.
	SeatNumbers []int `json:"seat_numbers" validate:"dive,min=1"`
}

type CreateTicketRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid4"`
	SeatNumber int    `json:"seat_number" validate:"required,min=1"`
}
