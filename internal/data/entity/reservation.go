package entity

import "github.com/google/uuid"

// Reservation is a cancellable hold on one or more seats of a showtime. A
// requester holds at most one reservation per showtime, and within one
// showtime no seat appears in two reservations or in a reservation and a
// ticket at once.
type Reservation struct {
	BaseSimple
	ShowtimeID  uuid.UUID `db:"showtime_id"`
	UserEmail   string    `db:"user_email"`
	SeatNumbers []int     `db:"-"` // reservation_seats rows in postgres
}

// HoldsSeat reports whether the reservation covers the given seat number.
func (r *Reservation) HoldsSeat(number int) bool {
	for _, n := range r.SeatNumbers {
		if n == number {
			return true
		}
	}
	return false
}
