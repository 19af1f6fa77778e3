package entity

import "github.com/google/uuid"

type SeatTier string

const (
	SeatTierEconomy SeatTier = "ECONOMY"
	SeatTierVIP     SeatTier = "VIP"
)

// Seat is immutable reference data, created in one block when the theater is
// set up: economy seats numbered 1..E, then VIP seats E+1..E+V. Reservations
// and tickets refer to seats by (theater_id, number), never own them.
type Seat struct {
	BaseSimple
	TheaterID uuid.UUID `db:"theater_id"`
	Number    int       `db:"number"`
	Tier      SeatTier  `db:"tier"`
}
