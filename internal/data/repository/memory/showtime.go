package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cinema-showtime/internal/data/entity"

	"github.com/google/uuid"
)

type showtimeRepository struct {
	store *Store
}

func (r *showtimeRepository) Create(_ context.Context, showtime *entity.Showtime) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.showtimes[showtime.ID] = cloneShowtime(showtime)
	return nil
}

func (r *showtimeRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtime, ok := r.store.showtimes[id]
	if !ok {
		return nil, nil
	}
	return cloneShowtime(showtime), nil
}

func (r *showtimeRepository) FindByTheaterAndStart(_ context.Context, theaterID uuid.UUID, startsAt time.Time) (*entity.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, showtime := range r.store.showtimes {
		if showtime.TheaterID == theaterID && showtime.StartsAt.Equal(startsAt) {
			return cloneShowtime(showtime), nil
		}
	}
	return nil, nil
}

func (r *showtimeRepository) UpdateState(_ context.Context, id uuid.UUID, state entity.ShowtimeState, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	showtime, ok := r.store.showtimes[id]
	if !ok {
		return fmt.Errorf("showtime %s not found", id.String())
	}
	showtime.State = state
	showtime.UpdatedAt = at
	return nil
}

func (r *showtimeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.showtimes[id]; !ok {
		return fmt.Errorf("showtime %s not found", id.String())
	}
	delete(r.store.showtimes, id)
	// Owned records go with the aggregate, matching the cascade in postgres.
	for rid, reservation := range r.store.reservations {
		if reservation.ShowtimeID == id {
			delete(r.store.reservations, rid)
		}
	}
	for tid, ticket := range r.store.tickets {
		if ticket.ShowtimeID == id {
			delete(r.store.tickets, tid)
		}
	}
	return nil
}

func (r *showtimeRepository) collect(match func(*entity.Showtime) bool) []*entity.Showtime {
	var showtimes []*entity.Showtime
	for _, showtime := range r.store.showtimes {
		if match(showtime) {
			showtimes = append(showtimes, cloneShowtime(showtime))
		}
	}
	sort.Slice(showtimes, func(i, j int) bool { return showtimes[i].StartsAt.Before(showtimes[j].StartsAt) })
	return showtimes
}

func (r *showtimeRepository) ListByMovie(_ context.Context, movieID uuid.UUID, limit, offset int) ([]*entity.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtimes := r.collect(func(s *entity.Showtime) bool { return s.MovieID == movieID })
	return page(showtimes, limit, offset), nil
}

func (r *showtimeRepository) CountByMovie(_ context.Context, movieID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.collect(func(s *entity.Showtime) bool { return s.MovieID == movieID }))), nil
}

func (r *showtimeRepository) ListByCinema(_ context.Context, cinemaID uuid.UUID, limit, offset int) ([]*entity.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtimes := r.collect(func(s *entity.Showtime) bool {
		theater, ok := r.store.theaters[s.TheaterID]
		return ok && theater.CinemaID == cinemaID
	})
	return page(showtimes, limit, offset), nil
}

func (r *showtimeRepository) CountByCinema(_ context.Context, cinemaID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtimes := r.collect(func(s *entity.Showtime) bool {
		theater, ok := r.store.theaters[s.TheaterID]
		return ok && theater.CinemaID == cinemaID
	})
	return int64(len(showtimes)), nil
}

func (r *showtimeRepository) ListByDate(_ context.Context, day time.Time, limit, offset int) ([]*entity.Showtime, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtimes := r.collect(func(s *entity.Showtime) bool {
		return !s.StartsAt.Before(from) && s.StartsAt.Before(to)
	})
	return page(showtimes, limit, offset), nil
}

func (r *showtimeRepository) CountByDate(_ context.Context, day time.Time) (int64, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	showtimes := r.collect(func(s *entity.Showtime) bool {
		return !s.StartsAt.Before(from) && s.StartsAt.Before(to)
	})
	return int64(len(showtimes)), nil
}

func (r *showtimeRepository) ListPending(_ context.Context) ([]*entity.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.collect(func(s *entity.Showtime) bool {
		return s.State == entity.ShowtimeStateScheduled || s.State == entity.ShowtimeStateInProgress
	}), nil
}
