package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShowtimeState string

const (
	ShowtimeStateCreation   ShowtimeState = "CREATION"
	ShowtimeStateScheduled  ShowtimeState = "SCHEDULED"
	ShowtimeStateInProgress ShowtimeState = "IN_PROGRESS"
	ShowtimeStateFinished   ShowtimeState = "FINISHED"
)

// ReservationCutoff is how long before the projection reservations close and
// held seats are released back to point-of-sale.
const ReservationCutoff = 5 * time.Hour

// MinScheduleAhead is the minimum distance between submission time and the
// projection date when creating a showtime.
const MinScheduleAhead = 48 * time.Hour

// Showtime is one projection of a movie in a theater at a fixed time. It is
// the aggregate root for tickets and reservations: every mutation of those
// goes through the per-showtime lock. Unique per (theater_id, starts_at).
type Showtime struct {
	BaseNoDelete
	MovieID      uuid.UUID     `db:"movie_id"`
	TheaterID    uuid.UUID     `db:"theater_id"`
	EconomyPrice float64       `db:"economy_price"`
	VIPPrice     float64       `db:"vip_price"`
	StartsAt     time.Time     `db:"starts_at"`
	State        ShowtimeState `db:"state"`
}

// ExpiryAt is the deadline at which all reservations for the showtime are
// cleared: the reservation cutoff plus a small safety margin, so the sweep
// never runs inside the sale-only window.
func (s *Showtime) ExpiryAt(margin time.Duration) time.Time {
	return s.StartsAt.Add(-ReservationCutoff).Add(-margin)
}

// EndsAt is the projection end given the movie duration in minutes.
func (s *Showtime) EndsAt(durationMinutes int) time.Time {
	return s.StartsAt.Add(time.Duration(durationMinutes) * time.Minute)
}

// PriceFor returns the ticket price for a seat tier.
func (s *Showtime) PriceFor(tier SeatTier) float64 {
	if tier == SeatTierVIP {
		return s.VIPPrice
	}
	return s.EconomyPrice
}

// Removable reports whether the showtime may be deleted: only before it is
// confirmed or after its projection has finished.
func (s *Showtime) Removable() bool {
	return s.State == ShowtimeStateCreation || s.State == ShowtimeStateFinished
}
