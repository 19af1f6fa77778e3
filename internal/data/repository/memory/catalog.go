package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cinema-showtime/internal/data/entity"

	"github.com/google/uuid"
)

type movieRepository struct {
	store *Store
}

func (r *movieRepository) Create(_ context.Context, movie *entity.Movie) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movies[movie.ID] = cloneMovie(movie)
	return nil
}

func (r *movieRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	movie, ok := r.store.movies[id]
	if !ok {
		return nil, nil
	}
	return cloneMovie(movie), nil
}

func (r *movieRepository) Update(_ context.Context, movie *entity.Movie) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.movies[movie.ID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("movie %s not found", movie.ID.String())
	}
	r.store.movies[movie.ID] = cloneMovie(movie)
	return nil
}

func (r *movieRepository) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	movie, ok := r.store.movies[id]
	if !ok || movie.DeletedAt != nil {
		return fmt.Errorf("movie %s not found", id.String())
	}
	deletedAt := at
	movie.DeletedAt = &deletedAt
	movie.UpdatedAt = at
	return nil
}

func (r *movieRepository) List(_ context.Context, limit, offset int) ([]*entity.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var movies []*entity.Movie
	for _, movie := range r.store.movies {
		if movie.DeletedAt == nil {
			movies = append(movies, cloneMovie(movie))
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })

	return page(movies, limit, offset), nil
}

func (r *movieRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, movie := range r.store.movies {
		if movie.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

type cinemaRepository struct {
	store *Store
}

func (r *cinemaRepository) Create(_ context.Context, cinema *entity.Cinema) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.cinemas[cinema.ID] = cloneCinema(cinema)
	return nil
}

func (r *cinemaRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Cinema, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	cinema, ok := r.store.cinemas[id]
	if !ok {
		return nil, nil
	}
	return cloneCinema(cinema), nil
}

func (r *cinemaRepository) List(_ context.Context, limit, offset int) ([]*entity.Cinema, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var cinemas []*entity.Cinema
	for _, cinema := range r.store.cinemas {
		cinemas = append(cinemas, cloneCinema(cinema))
	}
	sort.Slice(cinemas, func(i, j int) bool { return cinemas[i].Name < cinemas[j].Name })

	return page(cinemas, limit, offset), nil
}

func (r *cinemaRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.cinemas)), nil
}

type theaterRepository struct {
	store *Store
}

func (r *theaterRepository) Create(_ context.Context, theater *entity.Theater) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.theaters[theater.ID] = cloneTheater(theater)
	return nil
}

func (r *theaterRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Theater, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	theater, ok := r.store.theaters[id]
	if !ok {
		return nil, nil
	}
	return cloneTheater(theater), nil
}

func (r *theaterRepository) FindByCinemaAndNumber(_ context.Context, cinemaID uuid.UUID, number int) (*entity.Theater, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, theater := range r.store.theaters {
		if theater.CinemaID == cinemaID && theater.Number == number {
			return cloneTheater(theater), nil
		}
	}
	return nil, nil
}

func (r *theaterRepository) ListByCinema(_ context.Context, cinemaID uuid.UUID) ([]*entity.Theater, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var theaters []*entity.Theater
	for _, theater := range r.store.theaters {
		if theater.CinemaID == cinemaID {
			theaters = append(theaters, cloneTheater(theater))
		}
	}
	sort.Slice(theaters, func(i, j int) bool { return theaters[i].Number < theaters[j].Number })
	return theaters, nil
}

type seatRepository struct {
	store *Store
}

func (r *seatRepository) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, seat := range seats {
		byNumber, ok := r.store.seats[seat.TheaterID]
		if !ok {
			byNumber = make(map[int]*entity.Seat)
			r.store.seats[seat.TheaterID] = byNumber
		}
		byNumber[seat.Number] = cloneSeat(seat)
	}
	return nil
}

func (r *seatRepository) FindByTheaterAndNumber(_ context.Context, theaterID uuid.UUID, number int) (*entity.Seat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	seat, ok := r.store.seats[theaterID][number]
	if !ok {
		return nil, nil
	}
	return cloneSeat(seat), nil
}

func (r *seatRepository) ListByTheater(_ context.Context, theaterID uuid.UUID) ([]*entity.Seat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var seats []*entity.Seat
	for _, seat := range r.store.seats[theaterID] {
		seats = append(seats, cloneSeat(seat))
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].Number < seats[j].Number })
	return seats, nil
}

// page applies limit/offset pagination to an already sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
