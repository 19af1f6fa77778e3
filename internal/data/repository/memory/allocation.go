package memory

import (
	"context"
	"fmt"
	"sort"

	"cinema-showtime/internal/data/entity"

	"github.com/google/uuid"
)

type reservationRepository struct {
	store *Store
}

func (r *reservationRepository) Create(_ context.Context, reservation *entity.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (r *reservationRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	reservation, ok := r.store.reservations[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(reservation), nil
}

func (r *reservationRepository) list(match func(*entity.Reservation) bool) []*entity.Reservation {
	var reservations []*entity.Reservation
	for _, reservation := range r.store.reservations {
		if match(reservation) {
			reservations = append(reservations, cloneReservation(reservation))
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt.Before(reservations[j].CreatedAt)
	})
	return reservations
}

func (r *reservationRepository) ListByShowtime(_ context.Context, showtimeID uuid.UUID) ([]*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.list(func(res *entity.Reservation) bool { return res.ShowtimeID == showtimeID }), nil
}

func (r *reservationRepository) ListByUser(_ context.Context, email string) ([]*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.list(func(res *entity.Reservation) bool { return res.UserEmail == email }), nil
}

func (r *reservationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reservations[id]; !ok {
		return fmt.Errorf("reservation %s not found", id.String())
	}
	delete(r.store.reservations, id)
	return nil
}

func (r *reservationRepository) DeleteByShowtime(_ context.Context, showtimeID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, reservation := range r.store.reservations {
		if reservation.ShowtimeID == showtimeID {
			delete(r.store.reservations, id)
			count++
		}
	}
	return count, nil
}

type ticketRepository struct {
	store *Store
}

func (r *ticketRepository) Create(_ context.Context, ticket *entity.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *ticketRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, nil
	}
	return cloneTicket(ticket), nil
}

func (r *ticketRepository) ListByShowtime(_ context.Context, showtimeID uuid.UUID) ([]*entity.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var tickets []*entity.Ticket
	for _, ticket := range r.store.tickets {
		if ticket.ShowtimeID == showtimeID {
			tickets = append(tickets, cloneTicket(ticket))
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].SeatNumber < tickets[j].SeatNumber })
	return tickets, nil
}

func (r *ticketRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[id]; !ok {
		return fmt.Errorf("ticket %s not found", id.String())
	}
	delete(r.store.tickets, id)
	return nil
}

func (r *ticketRepository) DeleteForFinishedShowtimes(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, ticket := range r.store.tickets {
		showtime, ok := r.store.showtimes[ticket.ShowtimeID]
		if ok && showtime.State == entity.ShowtimeStateFinished {
			delete(r.store.tickets, id)
			count++
		}
	}
	return count, nil
}
