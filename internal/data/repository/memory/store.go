// Package memory backs the repository interfaces with an in-process
// arena: entities live in id-keyed maps and reference each other by id
// only, so no pointer cycles form between showtimes, reservations and
// seats. A single RWMutex keeps the maps safe for concurrent access;
// business-level mutual exclusion per showtime stays with pkg/lock.
//
// Used by the test suite and selectable in production via DB_DRIVER=memory.
package memory

import (
	"sync"

	"cinema-showtime/internal/data/entity"
	"cinema-showtime/internal/data/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	movies       map[uuid.UUID]*entity.Movie
	cinemas      map[uuid.UUID]*entity.Cinema
	theaters     map[uuid.UUID]*entity.Theater
	seats        map[uuid.UUID]map[int]*entity.Seat // theater id -> seat number
	showtimes    map[uuid.UUID]*entity.Showtime
	reservations map[uuid.UUID]*entity.Reservation
	tickets      map[uuid.UUID]*entity.Ticket
}

func NewStore() *Store {
	return &Store{
		movies:       make(map[uuid.UUID]*entity.Movie),
		cinemas:      make(map[uuid.UUID]*entity.Cinema),
		theaters:     make(map[uuid.UUID]*entity.Theater),
		seats:        make(map[uuid.UUID]map[int]*entity.Seat),
		showtimes:    make(map[uuid.UUID]*entity.Showtime),
		reservations: make(map[uuid.UUID]*entity.Reservation),
		tickets:      make(map[uuid.UUID]*entity.Ticket),
	}
}

// NewRepository wires every repository interface to one shared store.
func NewRepository() *repository.Repository {
	store := NewStore()
	return &repository.Repository{
		Movie:       &movieRepository{store: store},
		Cinema:      &cinemaRepository{store: store},
		Theater:     &theaterRepository{store: store},
		Seat:        &seatRepository{store: store},
		Showtime:    &showtimeRepository{store: store},
		Reservation: &reservationRepository{store: store},
		Ticket:      &ticketRepository{store: store},
	}
}

// Entities are cloned on the way in and out so callers never alias store
// state. Reservations carry a seat slice that needs a deep copy.

func cloneMovie(m *entity.Movie) *entity.Movie {
	c := *m
	if m.DeletedAt != nil {
		at := *m.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}

func cloneCinema(c *entity.Cinema) *entity.Cinema {
	clone := *c
	return &clone
}

func cloneTheater(t *entity.Theater) *entity.Theater {
	clone := *t
	return &clone
}

func cloneSeat(s *entity.Seat) *entity.Seat {
	clone := *s
	return &clone
}

func cloneShowtime(s *entity.Showtime) *entity.Showtime {
	clone := *s
	return &clone
}

func cloneReservation(r *entity.Reservation) *entity.Reservation {
	clone := *r
	clone.SeatNumbers = append([]int(nil), r.SeatNumbers...)
	return &clone
}

func cloneTicket(t *entity.Ticket) *entity.Ticket {
	clone := *t
	return &clone
}
