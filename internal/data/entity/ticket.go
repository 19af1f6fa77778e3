package entity

import "github.com/google/uuid"

// Ticket is a point-of-sale claim on exactly one seat of a showtime. Tickets
// survive the showtime reaching FINISHED until the daily sweep removes them.
type Ticket struct {
	BaseSimple
	ShowtimeID uuid.UUID `db:"showtime_id"`
	SeatNumber int       `db:"seat_number"`
	Price      float64   `db:"price"`
}
