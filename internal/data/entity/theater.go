package entity

import "github.com/google/uuid"

// Theater is a numbered auditorium inside a cinema. Unique per
// (cinema_id, number).
type Theater struct {
	BaseNoDelete
	CinemaID     uuid.UUID `db:"cinema_id"`
	Number       int       `db:"number"`
	EconomySeats int       `db:"economy_seats"`
	VIPSeats     int       `db:"vip_seats"`
}
